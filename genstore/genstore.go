// Package genstore tracks cache generations: which version labels exist,
// which storage keys belong to each, and which label is current. The
// controller consults it on activation (to purge superseded generations)
// and on every request (to detect being superseded).
package genstore

import "context"

// GenStore abstracts where the generation registry lives.
// Use Local (default) for in-process state, or RedisGenStore when several
// replicas must agree on the current generation.
type GenStore interface {
	// Register records a generation label. Idempotent.
	Register(ctx context.Context, label string) error
	// SetCurrent promotes label to the single current generation,
	// registering it if needed.
	SetCurrent(ctx context.Context, label string) error
	// Current returns the promoted label; "" when none has activated yet.
	Current(ctx context.Context) (string, error)
	// AddKey records a storage key as a member of label.
	AddKey(ctx context.Context, label, storageKey string) error
	// Keys lists the member storage keys of label; empty for unknown labels.
	Keys(ctx context.Context, label string) ([]string, error)
	// Labels lists every registered generation label.
	Labels(ctx context.Context) ([]string, error)
	// Drop forgets label and its membership.
	Drop(ctx context.Context, label string) error
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
