package connection

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	dc "github.com/samujjwal/rental-sub006/data/config"
	_ "modernc.org/sqlite" // SQLite driver
)

// sqlDrivers maps configured driver names to database/sql driver names.
var sqlDrivers = map[string]string{
	"postgres":   "pgx",
	"postgresql": "pgx",
	"pgx":        "pgx",
	"mysql":      "mysql",
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
}

// OpenDB opens and pings the relational store, returning the pool and its
// SQL dialect ("postgres", "mysql" or "sqlite").
func OpenDB(ctx context.Context, conf *dc.Database) (*sql.DB, string, error) {
	if conf == nil || conf.Source == "" {
		return nil, "", fmt.Errorf("database: connection source is empty")
	}
	driverName, ok := sqlDrivers[conf.Driver]
	if !ok {
		return nil, "", fmt.Errorf("database: unsupported driver %q", conf.Driver)
	}

	db, err := sql.Open(driverName, conf.Source)
	if err != nil {
		return nil, "", fmt.Errorf("database: failed to open connection: %w", err)
	}

	if conf.MaxIdleConn > 0 {
		db.SetMaxIdleConns(conf.MaxIdleConn)
	}
	if conf.MaxOpenConn > 0 {
		db.SetMaxOpenConns(conf.MaxOpenConn)
	}
	if conf.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(conf.ConnMaxLifeTime)
	}
	if driverName == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("database: failed to ping: %w", err)
	}

	return db, dialectOf(driverName), nil
}

func dialectOf(driverName string) string {
	if driverName == "pgx" {
		return "postgres"
	}
	return driverName
}
