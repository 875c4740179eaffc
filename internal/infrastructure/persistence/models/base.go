package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopassist/backend/internal/domain/shared"
)

// BaseModel carries the identity and timestamp columns shared by every
// table. Timestamps come from the domain entity rather than GORM
// autoupdate so UpdatedAt reflects domain mutations.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain maps the persistence columns back to a shared.BaseEntity.
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// SetBase fills the shared columns from a domain entity.
func (m *BaseModel) SetBase(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}
