package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/common"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/dbx"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a PENDING session. The unique index on code arbitrates
// concurrent creations: if the insert conflicts, a second guarded UPDATE
// takes over the row only when its previous occupant has expired. Either
// statement succeeding means exactly one caller owns the code; everyone
// else observes common.ErrCodeInUse.
func (r *PostgresRepository) Create(ctx context.Context, session *models.MachineSession) (*models.MachineSession, error) {

	session.ID = uuid.NewString()
	session.Status = models.SessionPending

	insert :=
		`INSERT INTO machine_sessions (id, machine_id, code, status, created_at, expires_at)
         VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (code) DO NOTHING
		 RETURNING id
		 `

	var id string
	err := r.db.QueryRowContext(ctx, insert,
		session.ID, session.MachineID, session.Code, session.Status, session.CreatedAt, session.ExpiresAt).Scan(&id)

	if err == nil {
		return session, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// The code is taken. Recycle the row if its session has expired.
	recycle :=
		`UPDATE machine_sessions
		 SET id = $1, machine_id = $2, user_id = NULL, status = $4, created_at = $5, expires_at = $6
		 WHERE code = $3 AND expires_at <= $5
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, recycle,
		session.ID, session.MachineID, session.Code, session.Status, session.CreatedAt, session.ExpiresAt).Scan(&id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrCodeInUse
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*models.MachineSession, error) {
	query :=
		`SELECT id, machine_id, code, user_id, status, created_at, expires_at FROM machine_sessions
		 WHERE code = $1
		 `

	session := &models.MachineSession{}
	var userID sql.NullString
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&session.ID, &session.MachineID, &session.Code, &userID, &session.Status, &session.CreatedAt, &session.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	session.UserID = userID.String

	return session, nil
}

// Bind is a single guarded UPDATE: reading PENDING and writing ACTIVE happen
// atomically, so two concurrent binds on one session leave exactly one winner.
func (r *PostgresRepository) Bind(ctx context.Context, code string, userID string) error {
	query :=
		`UPDATE machine_sessions
		 SET user_id = $2, status = $3
		 WHERE code = $1 AND status = $4
		 RETURNING id
		 `

	var id string
	err := r.db.QueryRowContext(ctx, query, code, userID, models.SessionActive, models.SessionPending).Scan(&id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrInvalidCode
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Consume is the same guarded-UPDATE shape as Bind for the ACTIVE→USED
// transition. The returned user id is the one attached at bind time.
func (r *PostgresRepository) Consume(ctx context.Context, code string) (string, error) {
	query :=
		`UPDATE machine_sessions
		 SET status = $2
		 WHERE code = $1 AND status = $3
		 RETURNING user_id
		 `

	var userID sql.NullString
	err := r.db.QueryRowContext(ctx, query, code, models.SessionUsed, models.SessionActive).Scan(&userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrInvalidSession
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return userID.String, nil
}
