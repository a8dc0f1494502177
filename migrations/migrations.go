// Package migrations embeds the SQL schema migrations applied by the
// tern-based migrator at startup.
package migrations

import "embed"

//go:embed *.sql
var MigrationFiles embed.FS
