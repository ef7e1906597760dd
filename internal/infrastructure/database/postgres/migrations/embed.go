// Package migrations embeds the SQL schema migrations applied by
// postgres.Migrator.
package migrations

import "embed"

// FS holds the NNNNNN_name.{up,down}.sql files.
//
//go:embed *.sql
var FS embed.FS

//Personal.AI order the ending
