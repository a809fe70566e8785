package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

type Execer interface {
	QueryRower
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var tableDDL = []struct {
	name string
	ddl  string
}{
	{"trips", `
CREATE TABLE IF NOT EXISTS trips (
	id VARCHAR(32) NOT NULL PRIMARY KEY,
	patientdetails JSON NOT NULL,
	triproute JSON NOT NULL,
	financials JSON NOT NULL,
	tripmode VARCHAR(16) NOT NULL DEFAULT 'Online',
	userid VARCHAR(64) NULL,
	createdat DATETIME(3) NULL,
	updatedat DATETIME(3) NULL,
	KEY idx_trips_user (userid),
	KEY idx_trips_created (createdat)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`},
	{"hospital_locations", `
CREATE TABLE IF NOT EXISTS hospital_locations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	address VARCHAR(512) NOT NULL,
	UNIQUE KEY uniq_hospital_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`},
}

// EnsureSchema creates the trips and hospital_locations tables when missing.
// Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db Execer) error {
	for _, t := range tableDDL {
		if HasTable(ctx, db, t.name) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		log.Printf("[DB] created table %s", t.name)
	}
	return nil
}
