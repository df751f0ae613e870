// Package web embeds the fallback single-page shell served when no static
// directory is configured.
package web

import "embed"

//go:embed index.html app.js
var FS embed.FS
