//go:build !nogui && cgo

package ui

import (
	"sync"

	webview "github.com/webview/webview_go"

	"open-webui-desktop/internal/logger"
)

// consoleHook rewires the browser console so page output lands in the
// launcher log. The bound sink must exist before this runs.
const consoleHook = `(function () {
	if (!window.__consoleLog) { return; }
	['log', 'info', 'warn', 'error'].forEach(function (level) {
		var original = console[level];
		console[level] = function () {
			try {
				window.__consoleLog(level, Array.prototype.slice.call(arguments).join(' '));
			} catch (e) {}
			original.apply(console, arguments);
		};
	});
})();`

// Window is the native shell around the web UI. It starts on the loader
// page; all later mutation goes through Dispatch because webview is only
// safe on its own thread.
type Window struct {
	view webview.WebView
	log  logger.Logger

	gate      dispatchGate
	terminate sync.Once
}

// NewWindow creates the native window showing the loader page. Returns
// ErrUnavailable when no webview runtime exists on this system.
func NewWindow(opts Options, log logger.Logger) (*Window, error) {
	view := webview.New(opts.Debug)
	if view == nil {
		return nil, ErrUnavailable
	}

	view.SetTitle(opts.Title)
	view.SetSize(opts.Width, opts.Height, webview.HintNone)

	w := &Window{view: view, log: log}

	if err := view.Bind("__consoleLog", func(level, message string) {
		log.Debug("WebView", message, map[string]interface{}{
			"console": level,
		})
	}); err != nil {
		log.Warning("WindowManager", "console forwarding unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	}
	view.Init(consoleHook)

	view.SetHtml(LoaderPage())

	log.Info("WindowManager", "window created", map[string]interface{}{
		"title":  opts.Title,
		"width":  opts.Width,
		"height": opts.Height,
	})

	return w, nil
}

// ShowApp swaps the loader for the served web UI.
func (w *Window) ShowApp(url string) {
	w.dispatch(func() {
		w.view.Navigate(url)
	})
	w.log.Info("WindowManager", "web view navigated to server", map[string]interface{}{
		"url": url,
	})
}

// ShowError replaces the current view with the error page.
func (w *Window) ShowError(message string) {
	w.dispatch(func() {
		w.view.SetHtml(ErrorPage(message))
	})
}

// Run enters the window event loop and blocks until the window closes.
func (w *Window) Run() {
	w.view.Run()

	// Closing the gate first guarantees no dispatch can touch the view
	// once it is destroyed.
	w.gate.Close()
	w.view.Destroy()
	w.log.Info("WindowManager", "window closed", nil)
}

// Shutdown asks the event loop to exit. Implements shutdown.Shutdownable.
func (w *Window) Shutdown() {
	w.terminate.Do(func() {
		w.dispatch(func() {
			w.view.Terminate()
		})
	})
}

func (w *Window) dispatch(fn func()) {
	w.gate.Do(func() {
		w.view.Dispatch(fn)
	})
}
