// Package templates embeds the server-rendered pages.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses every page. Pages share the "header" and "footer" blocks
// defined in layout.html.
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
