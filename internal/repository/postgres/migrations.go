package postgres

import "embed"

// Migrations holds the schema migrations, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
