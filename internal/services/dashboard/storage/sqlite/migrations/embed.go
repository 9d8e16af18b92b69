// Package migrations embeds the dashboard SQLite schema.
package migrations

import "embed"

// FS holds the migration files applied at open.
//
//go:embed *.sql
var FS embed.FS
