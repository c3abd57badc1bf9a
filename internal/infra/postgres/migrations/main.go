package migrations

import "github.com/uptrace/bun/migrate"

// Migrations collects the Postgres schema migrations, ordered by file name.
var Migrations = migrate.NewMigrations()
