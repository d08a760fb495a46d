package models

import (
	"time"

	"github.com/google/uuid"
)

// Event status values stored on outbox rows.
const (
	EventStatusPending   = "pending"
	EventStatusProcessed = "processed"
	EventStatusFailed    = "failed"
)

// EventModel is the persistence model for host-side change events. Rows
// are written in the same transaction as the change itself and drained by
// the event processor, which turns them into export jobs.
type EventModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type        string    `gorm:"type:varchar(100);not null"`
	AggregateID uuid.UUID `gorm:"type:uuid;not null"`
	Payload     string    `gorm:"type:jsonb"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_events_poll,priority:1"`
	LastError   string    `gorm:"type:text"`
	ProcessedAt *time.Time
	CreatedAt   time.Time `gorm:"not null;index:idx_events_poll,priority:2"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "connector_events"
}
