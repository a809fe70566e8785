package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ConnectDB opens the MySQL pool and verifies it with a ping.
// The returned handle is passed explicitly to repositories.
func ConnectDB(env Env) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(env.MySQLDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Printf("connected to MySQL database %s", cfg.DBName)
	return db, nil
}

func CloseDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}
