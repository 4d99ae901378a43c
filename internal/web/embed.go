package web

import "embed"

// Static holds the editor page and its assets
//
//go:embed embed
var Static embed.FS
