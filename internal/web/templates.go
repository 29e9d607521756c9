// Package web implements the server-rendered HTML page layer. Pages
// authenticate with the Redis-backed session cookie; form handling
// mirrors the REST operations but reports problems inline on the page
// instead of via status codes.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}
