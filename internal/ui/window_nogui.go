//go:build nogui || !cgo

package ui

import "open-webui-desktop/internal/logger"

// Window stub for builds without a webview runtime. NewWindow always
// reports ErrUnavailable, so the launcher runs in browser mode.
type Window struct{}

func NewWindow(opts Options, log logger.Logger) (*Window, error) {
	return nil, ErrUnavailable
}

func (w *Window) ShowApp(url string) {}

func (w *Window) ShowError(message string) {}

func (w *Window) Run() {}

func (w *Window) Shutdown() {}
