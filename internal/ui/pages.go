package ui

import (
	_ "embed"
	"errors"
	"html/template"
	"strings"
)

// ErrUnavailable means no native window can be created on this system.
// Callers fall back to opening the system browser.
var ErrUnavailable = errors.New("native window unavailable")

// Options describe the window the launcher wants.
type Options struct {
	Title  string
	Width  int
	Height int
	Debug  bool
}

//go:embed assets/loading.html
var loadingHTML string

//go:embed assets/error.html
var errorHTML string

var errorTemplate = template.Must(template.New("error").Parse(errorHTML))

// LoaderPage returns the spinner page shown until the server is ready.
func LoaderPage() string {
	return loadingHTML
}

// ErrorPage renders the error view. The message is HTML-escaped.
func ErrorPage(message string) string {
	var b strings.Builder
	if err := errorTemplate.Execute(&b, struct{ Message string }{Message: message}); err != nil {
		return "<h1>Error</h1>"
	}
	return b.String()
}
