package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// ListTables returns the base tables of the public schema, sorted.
// Views are left out on purpose: browsing pages with LIMIT/OFFSET and a
// view cannot promise the stable ordering that needs.
func (d *DB) ListTables() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := d.Conn.Query(ctx, `
		SELECT tablename
		FROM pg_catalog.pg_tables
		WHERE schemaname = 'public'
		ORDER BY tablename
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// PrimaryKeys returns a table's primary key columns in key order, not
// table order; composite keys joined in this order make stable row
// identities. An empty slice means the table has no primary key.
func (d *DB) PrimaryKeys(table string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := d.Conn.Query(ctx, `
		SELECT a.attname
		FROM pg_index i
		JOIN pg_attribute a
		  ON a.attrelid = i.indrelid AND a.attnum = ANY (i.indkey)
		WHERE i.indrelid = quote_ident($1)::regclass
		  AND i.indisprimary
		ORDER BY array_position(i.indkey, a.attnum)
	`, table)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
