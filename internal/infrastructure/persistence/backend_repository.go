package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// GormBackendRepository implements BackendRepository using GORM
type GormBackendRepository struct {
	db *gorm.DB
}

var _ connector.BackendRepository = (*GormBackendRepository)(nil)

// NewGormBackendRepository creates a new GormBackendRepository
func NewGormBackendRepository(db *gorm.DB) *GormBackendRepository {
	return &GormBackendRepository{db: db}
}

// FindByID finds a backend by its ID
func (r *GormBackendRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.Backend, error) {
	var model models.BackendModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connector.ErrBackendNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a backend by its unique name
func (r *GormBackendRepository) FindByName(ctx context.Context, name string) (*connector.Backend, error) {
	var model models.BackendModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connector.ErrBackendNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every configured backend
func (r *GormBackendRepository) FindAll(ctx context.Context) ([]*connector.Backend, error) {
	var backendModels []models.BackendModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&backendModels).Error; err != nil {
		return nil, err
	}
	backends := make([]*connector.Backend, 0, len(backendModels))
	for i := range backendModels {
		backends = append(backends, backendModels[i].ToDomain())
	}
	return backends, nil
}

// Save creates or updates a backend
func (r *GormBackendRepository) Save(ctx context.Context, backend *connector.Backend) error {
	if err := backend.Validate(); err != nil {
		return err
	}
	if backend.ID == uuid.Nil {
		backend.ID = uuid.New()
	}
	now := time.Now().UTC()
	if backend.CreatedAt.IsZero() {
		backend.CreatedAt = now
	}
	backend.UpdatedAt = now

	var model models.BackendModel
	model.FromDomain(backend)
	return r.db.WithContext(ctx).Save(&model).Error
}
