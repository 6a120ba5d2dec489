package sessions

import (
	"context"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/models"
)

type Repository interface {
	// Create starts a PENDING session for the given code, recycling an
	// expired row holding the same code if there is one. A live duplicate
	// yields common.ErrCodeInUse.
	Create(ctx context.Context, session *models.MachineSession) (*models.MachineSession, error)

	// GetByCode returns the stored session, live or expired.
	GetByCode(ctx context.Context, code string) (*models.MachineSession, error)

	// Bind moves a PENDING session to ACTIVE and attaches the user. Any
	// other stored state yields common.ErrInvalidCode.
	Bind(ctx context.Context, code string, userID string) error

	// Consume moves an ACTIVE session to USED and returns the bound user id.
	// Any other stored state yields common.ErrInvalidSession.
	Consume(ctx context.Context, code string) (string, error)
}
