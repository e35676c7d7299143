package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it, so the unit tests run without a database.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SessionRepositoryInterface defines operations for archived session records
type SessionRepositoryInterface interface {
	Save(ctx context.Context, record domain.SessionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error)
}

// ReferenceRepositoryInterface defines operations for reference descriptors
type ReferenceRepositoryInterface interface {
	Save(ctx context.Context, sessionID uuid.UUID, descriptor []float64) error
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]float64, error)
}
