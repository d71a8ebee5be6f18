// Package migrations embeds the database schema migration files.
package migrations

import "embed"

// FS holds the sql migration files.
//
//go:embed *.sql
var FS embed.FS
