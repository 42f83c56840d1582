// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"

	migrate "github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal strata flow, either at initial
// startup or from an external tool.  The schema is small enough that
// the migrations live in memory rather than behind a bindata step.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1-entries",
			Up: []string{
				`CREATE TABLE entries (
					entry_id SERIAL PRIMARY KEY,
					entry_type TEXT NOT NULL,
					doc JSONB NOT NULL
				)`,
				`CREATE INDEX entries_entry_type ON entries(entry_type)`,
			},
			Down: []string{
				`DROP TABLE entries`,
			},
		},
		{
			Id: "2-entries-doc-index",
			Up: []string{
				`CREATE INDEX entries_doc ON entries USING GIN (doc jsonb_path_ops)`,
			},
			Down: []string{
				`DROP INDEX entries_doc`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}

// Drop clears a database by running all of the migrations in reverse,
// ultimately resulting in dropping all of the tables.
func Drop(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Down)
	return err
}
