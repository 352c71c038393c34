// Package web embeds the templates and static files served by the UI.
package web

import "embed"

// In dev mode both are read from disk instead so edits show up on reload.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
