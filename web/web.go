// Package web embeds the frontend served by the API.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static/*
var content embed.FS

// Templates parses the page templates
func Templates() (*template.Template, error) {
	return template.ParseFS(content, "templates/*.html")
}

// Static returns the asset tree mounted at /static
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}
