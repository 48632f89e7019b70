package database

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
)

// InitDB connects to the database named by DATABASE_URL, dispatching on the
// DSN scheme. An unset DATABASE_URL falls back to a local sqlite file so the
// assistant works out of the box.
func InitDB() (*gorm.DB, string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "sqlite://ruby.db"
	}

	var db *gorm.DB
	var err error
	var dbType string

	switch {
	case strings.HasPrefix(dsn, "mysql://"):
		dbType = "mysql"
		db, err = gorm.Open(mysql.Open(strings.TrimPrefix(dsn, "mysql://")), &gorm.Config{})
	case strings.HasPrefix(dsn, "postgres://"):
		dbType = "postgres"
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case strings.HasPrefix(dsn, "sqlite://"):
		dbType = "sqlite"
		db, err = gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), &gorm.Config{})
	default:
		return nil, "", fmt.Errorf("unsupported database DSN: %s", dsn)
	}

	if err != nil {
		return nil, "", fmt.Errorf("connect database: %w", err)
	}

	return db, dbType, nil
}
