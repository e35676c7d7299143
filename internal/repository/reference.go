package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

type ReferenceRepository struct {
	pool PgxPool
}

func NewReferenceRepository(pool PgxPool) *ReferenceRepository {
	return &ReferenceRepository{pool: pool}
}

// Save upserts the reference descriptor of a session. Recapturing the
// reference replaces the stored vector.
func (r *ReferenceRepository) Save(ctx context.Context, sessionID uuid.UUID, descriptor []float64) error {
	if len(descriptor) == 0 {
		return fmt.Errorf("empty descriptor for session %s", sessionID)
	}

	floats := make([]float32, len(descriptor))
	for i, v := range descriptor {
		floats[i] = float32(v)
	}
	vec := pgvector.NewVector(floats)

	_, err := r.pool.Exec(ctx, `
		INSERT INTO reference_descriptors (session_id, descriptor, captured_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET descriptor = EXCLUDED.descriptor, captured_at = NOW()
	`, sessionID, vec)
	if err != nil {
		return fmt.Errorf("save reference descriptor: %w", err)
	}

	return nil
}

// GetBySessionID loads the stored reference descriptor of a session
func (r *ReferenceRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]float64, error) {
	var vec pgvector.Vector

	err := r.pool.QueryRow(ctx, `
		SELECT descriptor
		FROM reference_descriptors
		WHERE session_id = $1
	`, sessionID).Scan(&vec)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reference descriptor: %w", err)
	}

	floats := vec.Slice()
	descriptor := make([]float64, len(floats))
	for i, v := range floats {
		descriptor[i] = float64(v)
	}

	return descriptor, nil
}
