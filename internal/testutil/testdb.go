package testutil

import (
	"gtd-web/internal/database"

	"gorm.io/gorm"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	return database.Open(database.Options{Path: database.MemoryPath})
}
