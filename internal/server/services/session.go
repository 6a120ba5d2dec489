package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/common"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/dbx"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/config"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/models"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/repositories/repomanager"
)

// SessionService owns the machine-session state machine: creation with a
// fixed expiry, binding a user, and deposit-triggered consumption.
type SessionService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	sessionValidity time.Duration
}

// NewSessionService constructs a SessionService using repositories and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:              db,
		repomanager:     m,
		sessionValidity: cfg.SessionValidityDuration,
	}
}

// StartSession mints a PENDING session for the code shown on the machine.
// Expiry is fixed here and never extended. A live session already holding
// the code yields common.ErrCodeInUse; expired holders do not block reuse.
func (s *SessionService) StartSession(ctx context.Context, machineID, code string) (string, error) {

	now := time.Now()
	session := &models.MachineSession{
		MachineID: machineID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionValidity),
	}

	repo := s.repomanager.Sessions(s.db)
	created, err := repo.Create(ctx, session)
	if err != nil {
		if errors.Is(err, common.ErrCodeInUse) {
			return "", common.ErrCodeInUse
		}
		return "", fmt.Errorf("error creating session: %w", err)
	}

	return created.ID, nil
}

// Status returns the stored status verbatim. Expiry never rewrites the
// stored value, so callers see whatever state was last written regardless
// of elapsed time. Unknown codes yield common.ErrNotFound.
func (s *SessionService) Status(ctx context.Context, code string) (models.SessionStatus, error) {
	repo := s.repomanager.Sessions(s.db)

	session, err := repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		return "", common.ErrInternal
	}

	return session.Status, nil
}

// Bind attaches the authenticated user to a PENDING session and activates it.
// Expiry is not re-checked here: a PENDING session past its expiry can still
// be bound. Anything but stored-PENDING yields common.ErrInvalidCode.
func (s *SessionService) Bind(ctx context.Context, code string, userID string) error {
	repo := s.repomanager.Sessions(s.db)

	err := repo.Bind(ctx, code, userID)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCode) {
			return common.ErrInvalidCode
		}
		return fmt.Errorf("error binding session: %w", err)
	}

	return nil
}

// RecordDeposit consumes an ACTIVE session and appends one ledger row in a
// single transaction, so a session can never be spent twice: of N concurrent
// calls on the same session exactly one writes a deposit, the rest observe
// common.ErrInvalidSession. The machine id is taken from the request as-is
// and may differ from the session's originating machine.
func (s *SessionService) RecordDeposit(ctx context.Context, code, machineID string, count int) (string, error) {

	var depositID string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userID, err := s.repomanager.Sessions(tx).Consume(ctx, code)
		if err != nil {
			return err
		}

		deposit := &models.Deposit{
			UserID:    userID,
			MachineID: machineID,
			Count:     count,
		}

		d, err := s.repomanager.Deposits(tx).Append(ctx, deposit)
		if err != nil {
			return err
		}

		depositID = d.ID
		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrInvalidSession) {
			return "", common.ErrInvalidSession
		}
		return "", fmt.Errorf("error recording deposit: %w", err)
	}

	return depositID, nil
}
