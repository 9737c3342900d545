// Package migrations embeds the Postgres schema of the document mirror.
package migrations

import "embed"

// FS holds the ordered *.sql migration files.
//
//go:embed *.sql
var FS embed.FS
