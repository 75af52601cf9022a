// Package migrations embeds the SQLite schema for the local record store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
