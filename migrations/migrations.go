// Package migrations embeds the goose SQL migrations so binaries stay
// self-contained.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
