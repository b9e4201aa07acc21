package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// BaseModel carries the columns shared by every persistence model.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel adds the version column used for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromBaseEntity copies entity fields into the model.
func (m *BaseModel) FromBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// ToBaseEntity rebuilds the shared entity from model columns.
func (m *BaseModel) ToBaseEntity() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromAggregateRoot copies aggregate fields, version included.
func (m *AggregateModel) FromAggregateRoot(r shared.BaseAggregateRoot) {
	m.FromBaseEntity(r.BaseEntity)
	m.Version = r.Version
}

// ToAggregateRoot rebuilds the aggregate root from model columns.
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.ToBaseEntity(),
		Version:    m.Version,
	}
}
