// Package database provides SQLite connection and session management using GORM.
package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrUnsupportedDriver indicates the database URL uses an unsupported driver.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Database wraps a GORM connection with lifecycle management.
type Database struct {
	db       *gorm.DB
	readOnly bool
}

// Option configures how a database is opened.
type Option func(*openOptions)

type openOptions struct {
	readOnly bool
}

// WithReadOnly opens the database file in read-only mode so a running
// editor holding the file is never written to.
func WithReadOnly() Option {
	return func(o *openOptions) { o.readOnly = true }
}

// NewDatabase opens a database from a connection URL or a bare file path.
// Supported forms:
// - sqlite:///path/to/file.db
// - /path/to/file.db
// - :memory:
func NewDatabase(ctx context.Context, url string, opts ...Option) (Database, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	dsn, err := parseDSN(url, o.readOnly)
	if err != nil {
		return Database{}, fmt.Errorf("parse database url: %w", err)
	}

	config := &gorm.Config{
		Logger: slogGormLogger{},
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return Database{}, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return Database{}, fmt.Errorf("get underlying db: %w", err)
	}

	// Verify connection
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return Database{}, fmt.Errorf("ping database: %w", err)
	}

	// An in-memory database exists per connection.
	if strings.Contains(dsn, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	}

	return Database{db: db, readOnly: o.readOnly}, nil
}

// Session returns a GORM session with the given context.
func (d Database) Session(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// ReadOnly reports whether the database was opened read-only.
func (d Database) ReadOnly() bool { return d.readOnly }

// Close closes the database connection.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying db: %w", err)
	}
	return sqlDB.Close()
}

// ConfigurePool sets connection pool parameters.
func (d Database) ConfigurePool(maxOpen, maxIdle int, maxLifetime time.Duration) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying db: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)
	return nil
}

func parseDSN(raw string, readOnly bool) (string, error) {
	path := raw
	switch {
	case strings.HasPrefix(raw, "sqlite:///"):
		path = strings.TrimPrefix(raw, "sqlite:///")
	case strings.Contains(raw, "://"):
		return "", ErrUnsupportedDriver
	}
	if path == "" {
		return "", ErrUnsupportedDriver
	}
	if path == ":memory:" || !readOnly {
		return path, nil
	}
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro", nil
}
