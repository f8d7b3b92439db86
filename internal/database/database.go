package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gtd-web/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options controls how the SQLite database is opened.
type Options struct {
	// Path of the database file, created if it doesn't exist. MemoryPath keeps everything in RAM.
	Path string
	// LogSQL turns on gorm statement logging.
	LogSQL bool
}

// Open connects to the SQLite database and runs migrations.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
func Open(opts Options) (*gorm.DB, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if opts.Path != MemoryPath {
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	level := logger.Silent
	if opts.LogSQL {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(opts.Path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// every connection to ":memory:" is a new empty database
	if opts.Path == MemoryPath {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		_ = Close(db)
		return nil, err
	}
	return db, nil
}

// Migrate creates the tasks table if it doesn't exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
