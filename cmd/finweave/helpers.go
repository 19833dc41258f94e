package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/config"
	"github.com/finweave/finweave/internal/storage"
)

// openStorage opens the configured database. Callers own the returned
// storage and must Close it.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database.path is not set", common.ErrMissingConfig)
	}
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", dbPath, err)
	}
	return store, nil
}

func workspace() string {
	return viper.GetString("workspace")
}
