package migrations

import "embed"

// FS contains embedded SQLite migrations for the catalog and ledger schema.
//
//go:embed *.sql
var FS embed.FS
