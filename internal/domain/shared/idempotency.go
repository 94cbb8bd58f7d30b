package shared

import (
	"context"
	"time"
)

// StoredResponse is the response recorded for an Idempotency-Key so a
// retried request can be answered without being applied again.
type StoredResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore remembers client supplied Idempotency-Key values.
//
// A key moves through two states: reserved (request in flight) and completed
// (response recorded). Release drops a reservation so the client can retry.
type IdempotencyStore interface {
	// Reserve claims key for ttl. Returns false if the key is already
	// reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete records the response for a reserved key.
	Complete(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error

	// Lookup returns the recorded response, or nil while the key is only
	// reserved or unknown.
	Lookup(ctx context.Context, key string) (*StoredResponse, error)

	// Release forgets key.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
