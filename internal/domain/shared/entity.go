package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps shared by every
// persisted aggregate. Embedding it keeps the persistence mapping in one
// place (models.BaseModel).
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity returns a BaseEntity with a fresh ID and both timestamps
// set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps UpdatedAt. Entities call it from their mutating methods so
// the column tracks domain changes rather than ORM writes.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
