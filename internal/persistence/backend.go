// Package persistence stores the ledger document for one user key and
// reports changes made by other writers.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cnds86/kiptrack/internal/models"
)

// Backend is a remote document store keyed by user key.
type Backend interface {
	// Load returns the stored document, or nil when the key has none.
	Load(ctx context.Context, key string) (*models.AppData, error)
	// Save replaces the stored document.
	Save(ctx context.Context, key string, data models.AppData) error
	// Subscribe delivers the current document (nil when absent) once and
	// then every change, in order, until the returned func is called.
	Subscribe(ctx context.Context, key string, fn func(*models.AppData)) (func(), error)
	// Close releases the backend's connections.
	Close() error
}

func encode(data models.AppData) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (*models.AppData, error) {
	var d models.AppData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &d, nil
}
