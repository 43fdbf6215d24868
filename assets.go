// Package portal provides embedded frontend assets for production builds.
package portal

import "embed"

// StaticFS holds the compiled frontend bundle. In dev mode the server
// reads the same tree from disk so edits show up without a rebuild.
//
//go:embed all:frontend/static
var StaticFS embed.FS
