// Package web holds the embedded presentation layer: HTML templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/Simplici0/b2b-catalog/internal/export"
)

//go:embed templates static
var files embed.FS

var exportTemplate = template.Must(template.ParseFS(files, "templates/export.html"))

// Static returns the embedded static assets rooted at their directory.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// ParsePage parses the shared layout together with a page template.
func ParsePage(page string) (*template.Template, error) {
	t, err := template.ParseFS(files, "templates/layout.html", "templates/"+page)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", page, err)
	}
	return t, nil
}

// ExportEncoder writes export documents as standalone HTML files.
type ExportEncoder struct{}

func (ExportEncoder) Encode(w io.Writer, doc export.Document) error {
	return exportTemplate.ExecuteTemplate(w, "export.html", doc)
}
