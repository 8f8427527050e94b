package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// tablesQuery lists ordinary tables so models without foreign keys still
// appear in the catalog.
const tablesQuery = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = $1 AND table_type = 'BASE TABLE'
ORDER BY table_name`

// foreignKeysQuery lists single-table foreign keys in the schema.
const foreignKeysQuery = `
SELECT kcu.table_name, kcu.column_name, ccu.table_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_name = tc.constraint_name
 AND kcu.constraint_schema = tc.constraint_schema
JOIN information_schema.constraint_column_usage ccu
  ON ccu.constraint_name = tc.constraint_name
 AND ccu.constraint_schema = tc.constraint_schema
WHERE tc.constraint_type = 'FOREIGN KEY'
  AND tc.table_schema = $1
ORDER BY kcu.table_name, kcu.column_name`

// ForeignKey is one referencing column.
type ForeignKey struct {
	Table      string
	Column     string
	References string
}

// Introspect builds a catalog from the foreign keys of a PostgreSQL schema
// ("public" when empty). Models are named after tables. For a foreign key
// tasks.project_id -> projects it records
//
//	tasks.project  -> projects  (column without the _id suffix)
//	projects.tasks -> tasks     (the referencing table)
func Introspect(ctx context.Context, db *sql.DB, schema string) (*Catalog, error) {
	if schema == "" {
		schema = "public"
	}

	c := New()

	tables, err := db.QueryContext(ctx, tablesQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	for tables.Next() {
		var name string
		if err := tables.Scan(&name); err != nil {
			_ = tables.Close()
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		c.model(name)
	}
	if err := tables.Close(); err != nil {
		return nil, err
	}
	if err := tables.Err(); err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	rows, err := db.QueryContext(ctx, foreignKeysQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("listing foreign keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Table, &fk.Column, &fk.References); err != nil {
			return nil, fmt.Errorf("scanning foreign key: %w", err)
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing foreign keys: %w", err)
	}

	c.AddForeignKeys(fks...)
	return c, nil
}

// AddForeignKeys records the belongs-to and has-many associations implied
// by each foreign key. Belongs-to associations are added first so they win
// over a has-many association of the same name.
func (c *Catalog) AddForeignKeys(fks ...ForeignKey) {
	for _, fk := range fks {
		c.AddAssociation(fk.Table, belongsToName(fk.Column), fk.References)
	}
	for _, fk := range fks {
		c.AddAssociation(fk.References, fk.Table, fk.Table)
	}
}

func belongsToName(column string) string {
	if name := strings.TrimSuffix(column, "_id"); name != "" {
		return name
	}
	return column
}
