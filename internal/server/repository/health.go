package repository

import (
	"context"
	"database/sql"

	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

// HealthRepository проверяет доступность БД.
type HealthRepository struct {
	db   *sql.DB
	opts options
}

func NewHealthRepository(db *sql.DB, opts ...Option) *HealthRepository {
	return &HealthRepository{db: db, opts: newOptions(opts)}
}

func (r *HealthRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return serr.ErrInternal
	}
	return nil
}
