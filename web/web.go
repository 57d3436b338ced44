// Package web embeds the console's HTML templates and static assets so
// the binary ships self-contained.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// TemplatesFS returns the embedded templates filesystem, rooted at the
// templates directory.
func TemplatesFS() fs.FS {
	sub, _ := fs.Sub(templatesFS, "templates")
	return sub
}

// StaticFS returns the embedded static assets filesystem, rooted at the
// static directory.
func StaticFS() fs.FS {
	sub, _ := fs.Sub(staticFS, "static")
	return sub
}
