// Package storage provides abstractions for persistent debt storage.
package storage

import (
	"context"

	"github.com/tuanvm/smartdebt/internal/models"
)

// Store defines the interface for debt storage operations.
// This abstraction allows swapping storage backends (Cloud Firestore,
// a local blob, etc.) without changing the synchronization layer.
type Store interface {
	// List retrieves the full collection, ordered by start date descending.
	List(ctx context.Context) ([]models.Debt, error)

	// Create persists a new debt and returns the assigned id.
	// Any id on the passed debt is ignored: the provider owns ids.
	Create(ctx context.Context, debt models.Debt) (string, error)

	// Update applies a partial field update to an existing debt.
	Update(ctx context.Context, id string, fields map[string]any) error

	// Delete removes a debt and with it the payment history it owns.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}

// Snapshot is one delivery from a live subscription: either the full
// current collection or a terminal error for that subscription attempt.
type Snapshot struct {
	Debts []models.Debt
	Err   error
}

// Watcher is implemented by stores that can push live change
// notifications. Every remote change (the subscriber's own writes
// included) delivers the whole collection again.
//
// A Snapshot carrying a non-nil Err ends the subscription: the channel is
// closed afterwards and no retry is attempted. The caller decides whether
// to fall back to another store.
type Watcher interface {
	Watch(ctx context.Context) <-chan Snapshot
}
