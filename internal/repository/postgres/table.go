package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

// table implements repository.Table for one clinic-scoped relation. columns
// lists the writable columns besides id, clinica_id and created_at; each must
// match a db tag on R.
type table[R any] struct {
	BaseRepository
	name     string
	resource string
	columns  []string
}

func newTable[R any](db *sqlx.DB, name, resource string, columns ...string) *table[R] {
	return &table[R]{
		BaseRepository: NewBaseRepository(db),
		name:           name,
		resource:       resource,
		columns:        columns,
	}
}

func (t *table[R]) selectList() string {
	return "id, clinica_id, " + strings.Join(t.columns, ", ") + ", created_at"
}

func (t *table[R]) List(ctx context.Context) ([]R, error) {
	clinicID, err := t.ClinicFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE clinica_id = $1 ORDER BY created_at`, t.selectList(), t.name)
	rows := []R{}
	if err := t.db.SelectContext(ctx, &rows, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name, err)
	}
	return rows, nil
}

func (t *table[R]) Insert(ctx context.Context, row R) (R, error) {
	var out R
	cols := append([]string{"clinica_id"}, t.columns...)
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (:%s) RETURNING %s`,
		t.name, strings.Join(cols, ", "), strings.Join(cols, ", :"), t.selectList())

	bound, args, err := sqlx.Named(query, row)
	if err != nil {
		return out, fmt.Errorf("failed to bind %s insert: %w", t.resource, err)
	}
	if err := t.db.GetContext(ctx, &out, t.db.Rebind(bound), args...); err != nil {
		return out, fmt.Errorf("failed to create %s: %w", t.resource, err)
	}
	return out, nil
}

func (t *table[R]) Update(ctx context.Context, row R) (R, error) {
	var out R
	sets := make([]string, len(t.columns))
	for i, c := range t.columns {
		sets[i] = c + " = :" + c
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = :id AND clinica_id = :clinica_id RETURNING %s`,
		t.name, strings.Join(sets, ", "), t.selectList())

	bound, args, err := sqlx.Named(query, row)
	if err != nil {
		return out, fmt.Errorf("failed to bind %s update: %w", t.resource, err)
	}
	if err := t.db.GetContext(ctx, &out, t.db.Rebind(bound), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, apperrors.NotFound(t.resource, err)
		}
		return out, fmt.Errorf("failed to update %s: %w", t.resource, err)
	}
	return out, nil
}

// Delete removes the row if present. Deleting a missing id is not an error.
func (t *table[R]) Delete(ctx context.Context, id uuid.UUID) error {
	clinicID, err := t.ClinicFromContext(ctx)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND clinica_id = $2`, t.name)
	if _, err := t.db.ExecContext(ctx, query, id, clinicID); err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.resource, err)
	}
	return nil
}
