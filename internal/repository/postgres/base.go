package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-records/internal/scope"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ClinicFromContext returns the clinic reads must be limited to.
func (r *BaseRepository) ClinicFromContext(ctx context.Context) (uuid.UUID, error) {
	id, ok := scope.ClinicFrom(ctx)
	if !ok {
		return uuid.Nil, apperrors.ErrUserNotBound
	}
	return id, nil
}
