// Package migrations embeds the goose SQL migrations for the client's
// local board cache.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
