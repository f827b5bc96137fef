package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static/*
var static embed.FS

// StaticFS returns the page assets served under /static/
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}

// CatalogTemplate parses the catalog page template
func CatalogTemplate() (*template.Template, error) {
	tmpl, err := template.ParseFS(templates, "templates/catalog.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}
