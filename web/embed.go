// Package web embeds the ledger UI assets into the binary so the
// server ships as a single artifact.
package web

import "embed"

// TemplatesFS holds the server-rendered HTML pages.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the summary-fetch script.
//
//go:embed static/*
var StaticFS embed.FS
