package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/erp/connector/internal/domain/connector"
)

// BackendModel is the persistence model for a storefront backend.
type BackendModel struct {
	BaseModel
	Name                 string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Location             string     `gorm:"type:varchar(255);not null"`
	ConsumerKey          string     `gorm:"type:varchar(255);not null"`
	ConsumerSecret       string     `gorm:"type:varchar(255);not null"`
	VerifySSL            bool       `gorm:"not null;default:true"`
	WarehouseCode        string     `gorm:"type:varchar(50)"`
	StockField           string     `gorm:"type:varchar(30);not null;default:'forecast_qty'"`
	ImportOrdersFromDate *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (BackendModel) TableName() string {
	return "connector_backends"
}

// ToDomain converts the persistence model to a domain Backend.
func (m *BackendModel) ToDomain() *connector.Backend {
	return &connector.Backend{
		ID:                   m.ID,
		Name:                 m.Name,
		Location:             m.Location,
		ConsumerKey:          m.ConsumerKey,
		ConsumerSecret:       m.ConsumerSecret,
		VerifySSL:            m.VerifySSL,
		WarehouseCode:        m.WarehouseCode,
		StockField:           connector.StockField(m.StockField),
		ImportOrdersFromDate: m.ImportOrdersFromDate,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Backend.
func (m *BackendModel) FromDomain(b *connector.Backend) {
	m.ID = b.ID
	m.Name = b.Name
	m.Location = b.Location
	m.ConsumerKey = b.ConsumerKey
	m.ConsumerSecret = b.ConsumerSecret
	m.VerifySSL = b.VerifySSL
	m.WarehouseCode = b.WarehouseCode
	m.StockField = string(b.StockField)
	m.ImportOrdersFromDate = b.ImportOrdersFromDate
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt
}

// BindingModel is the persistence model for the external-to-local identity
// map. The unique indexes enforce at most one binding per remote record and
// per local record within a backend.
type BindingModel struct {
	BaseModel
	BackendID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_binding_external,priority:1;uniqueIndex:idx_binding_local,priority:1"`
	EntityType string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_binding_external,priority:2;uniqueIndex:idx_binding_local,priority:2"`
	ExternalID string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_binding_external,priority:3"`
	LocalID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_binding_local,priority:3"`
	LastSyncAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (BindingModel) TableName() string {
	return "connector_bindings"
}

// ToDomain converts the persistence model to a domain Binding.
func (m *BindingModel) ToDomain() *connector.Binding {
	b := &connector.Binding{
		ID:         m.ID,
		BackendID:  m.BackendID,
		EntityType: connector.EntityType(m.EntityType),
		ExternalID: connector.ExternalID(m.ExternalID),
		LocalID:    m.LocalID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.LastSyncAt != nil {
		b.LastSyncAt = *m.LastSyncAt
	}
	return b
}

// JobStatus values stored on job rows.
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// JobModel is the persistence model for a deferred job.
type JobModel struct {
	BaseModel
	Type       string     `gorm:"type:varchar(50);not null;index"`
	BackendID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ArgsJSON   string     `gorm:"type:jsonb;column:args;not null"`
	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_jobs_poll,priority:1"`
	Priority   int        `gorm:"not null;default:10;index:idx_jobs_poll,priority:2"`
	RunAt      time.Time  `gorm:"not null;index:idx_jobs_poll,priority:3"`
	MaxRetries int        `gorm:"not null;default:0"`
	RetryCount int        `gorm:"not null;default:0"`
	LastError  string     `gorm:"type:text"`
	Result     string     `gorm:"type:text"`
	StartedAt  *time.Time `gorm:""`
	DoneAt     *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (JobModel) TableName() string {
	return "connector_jobs"
}
