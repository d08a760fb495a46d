// Package work assembles the per-run Work for synchronization flows,
// binding stores, binders and the remote client to one backend.
package work

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	syncapp "github.com/erp/connector/internal/application/sync"
	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/infrastructure/persistence"
	"github.com/erp/connector/internal/infrastructure/queue"
	"github.com/erp/connector/internal/infrastructure/woocommerce"
)

// Builder implements sync.WorkBuilder and the queue worker's transaction
// scoped variant.
type Builder struct {
	db        *gorm.DB
	locker    connector.AdvisoryLocker
	remoteRPS float64
	log       *zap.Logger
}

// NewBuilder creates a builder.
func NewBuilder(db *gorm.DB, locker connector.AdvisoryLocker, remoteRPS float64, log *zap.Logger) *Builder {
	return &Builder{db: db, locker: locker, remoteRPS: remoteRPS, log: log}
}

// WorkFor builds a Work on the plain database handle.
func (b *Builder) WorkFor(ctx context.Context, backendID uuid.UUID) (*syncapp.Work, error) {
	return b.WorkOn(ctx, b.db, backendID)
}

// WorkOn builds a Work whose stores, binders and job queue run on the
// given handle. Passing a transaction handle scopes all of them to that
// transaction.
func (b *Builder) WorkOn(ctx context.Context, db *gorm.DB, backendID uuid.UUID) (*syncapp.Work, error) {
	backend, err := persistence.NewGormBackendRepository(db).FindByID(ctx, backendID)
	if err != nil {
		return nil, err
	}

	client, err := woocommerce.NewClient(woocommerce.ClientConfig{
		Location:          backend.Location,
		ConsumerKey:       backend.ConsumerKey,
		ConsumerSecret:    backend.ConsumerSecret,
		VerifySSL:         backend.VerifySSL,
		RequestsPerSecond: b.remoteRPS,
	})
	if err != nil {
		return nil, err
	}

	return &syncapp.Work{
		Backend:  backend,
		Binders:  persistence.NewGormBinderRegistry(db, backend.ID),
		Adapters: woocommerce.NewAdapterRegistry(client),
		Stores:   persistence.NewGormStoreRegistry(db),
		Queue:    queue.NewGormJobQueue(db),
		Locker:   b.locker,
		Images:   woocommerce.NewImageFetcher(),
		Log:      b.log.With(zap.String("backend", backend.Name)),
	}, nil
}
