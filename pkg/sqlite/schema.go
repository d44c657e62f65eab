// Package pkgsqlite derives SQLite table schemas from `sql` struct tags.
package pkgsqlite

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
)

// Column is one column derived from a struct field.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
}

// Columns reads the `sql` tags of a struct. Fields without a tag are skipped.
// A tag is "<column>[,primary_key]".
func Columns(table any) ([]Column, error) {
	t := reflect.TypeOf(table)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct, got %T", table)
	}

	var cols []Column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("sql")
		if tag == "" || tag == "-" {
			continue
		}

		parts := strings.Split(tag, ",")
		col := Column{Name: parts[0], Type: sqlType(field.Type)}
		for _, part := range parts[1:] {
			if strings.TrimSpace(part) == "primary_key" {
				col.PrimaryKey = true
			}
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("struct %s has no sql columns", t.Name())
	}
	return cols, nil
}

// EnsureTable creates the table for the struct if it is missing and adds any
// columns the struct gained since the table was created. It reports whether the
// schema changed.
func EnsureTable(ctx context.Context, db *sql.DB, table any, tableName string) (bool, error) {
	cols, err := Columns(table)
	if err != nil {
		return false, err
	}

	existing, err := tableColumns(ctx, db, tableName)
	if err != nil {
		return false, err
	}

	if len(existing) == 0 {
		if _, err := db.ExecContext(ctx, createStatement(tableName, cols)); err != nil {
			return false, fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
		log.Debug("Created table", "table", tableName)
		return true, nil
	}

	updated := false
	for _, col := range cols {
		if existing[col.Name] {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", tableName, col.Name, col.Type)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return false, fmt.Errorf("failed to add column %s to table %s: %w", col.Name, tableName, err)
		}
		log.Info("Added column", "table", tableName, "column", col.Name)
		updated = true
	}
	return updated, nil
}

func createStatement(tableName string, cols []Column) string {
	defs := make([]string, 0, len(cols))
	for _, col := range cols {
		def := col.Name + " " + col.Type
		if col.PrimaryKey {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(defs, ", "))
}

func tableColumns(ctx context.Context, db *sql.DB, tableName string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", tableName, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", tableName, err)
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

func sqlType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "INTEGER"
	case reflect.Bool:
		return "BOOLEAN"
	case reflect.Float32, reflect.Float64:
		return "REAL"
	default:
		return "TEXT"
	}
}
