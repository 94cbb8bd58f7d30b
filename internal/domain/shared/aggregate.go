package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseAggregateRoot carries the identity and bookkeeping shared by
// customers, products and invoices. Version starts at 1 and grows with
// every committed change.
type BaseAggregateRoot struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// NewBaseAggregateRoot assigns a fresh ID and stamps both timestamps
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// Touch records a modification time
func (a *BaseAggregateRoot) Touch() {
	a.UpdatedAt = time.Now()
}

func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}
