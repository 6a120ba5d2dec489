package deposits

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/dbx"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append writes one ledger row. The ledger is append-only: rows are never
// updated or deleted.
func (r *PostgresRepository) Append(ctx context.Context, deposit *models.Deposit) (*models.Deposit, error) {

	deposit.ID = uuid.NewString()

	query :=
		`INSERT INTO deposits (id, user_id, machine_id, count)
         VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		deposit.ID, deposit.UserID, deposit.MachineID, deposit.Count).Scan(&deposit.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return deposit, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Deposit, error) {
	query :=
		`SELECT id, user_id, machine_id, count, created_at FROM deposits
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Deposit, 0)
	for rows.Next() {
		var d models.Deposit
		if err := rows.Scan(&d.ID, &d.UserID, &d.MachineID, &d.Count, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
