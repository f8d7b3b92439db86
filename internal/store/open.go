package store

import (
	"fmt"

	"gtd-web/internal/config"
	"gtd-web/internal/database"
)

// Open builds the backend selected by the storage config.
// The returned close func releases the backend's resources.
func Open(cfg config.StorageConfig, logSQL bool) (Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), func() error { return nil }, nil
	case config.BackendSQLite:
		db, err := database.Open(database.Options{Path: cfg.Path, LogSQL: logSQL})
		if err != nil {
			return nil, nil, err
		}
		return NewSQLStore(db), func() error { return database.Close(db) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
