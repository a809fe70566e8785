package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log"
)

type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasTable reports whether table exists in the current schema. Any error,
// including a bad connection, is reported as false and left to the caller.
func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		if errors.Is(err, driver.ErrBadConn) {
			log.Printf("HasTable %s: %v", table, err)
		}
		return false
	}
	return name.Valid && name.String != ""
}

// NullIfEmpty helps store optional strings as NULL.
func NullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
