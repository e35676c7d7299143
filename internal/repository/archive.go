package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

// ErrAlreadyArchived means the session record was archived before
var ErrAlreadyArchived = errors.New("session already archived")

// Archive combines the session and reference repositories behind the
// monitor.Archiver interface
type Archive struct {
	sessions   SessionRepositoryInterface
	references ReferenceRepositoryInterface
}

func NewArchive(pool PgxPool) *Archive {
	return &Archive{
		sessions:   NewSessionRepository(pool),
		references: NewReferenceRepository(pool),
	}
}

func (a *Archive) SaveReference(ctx context.Context, sessionID uuid.UUID, descriptor []float64) error {
	return a.references.Save(ctx, sessionID, descriptor)
}

func (a *Archive) SaveSession(ctx context.Context, record domain.SessionRecord) error {
	return a.sessions.Save(ctx, record)
}
