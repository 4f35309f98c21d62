// Package migrations embeds the goose SQL migrations for the board store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
