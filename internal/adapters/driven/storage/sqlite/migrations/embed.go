// Package migrations embeds the versioned schema of the workspace state
// database. Files are named NNN_name.up.sql and NNN_name.down.sql and are
// applied in lexical order.
package migrations

import "embed"

// FS holds the migration files.
//
//go:embed *.sql
var FS embed.FS
