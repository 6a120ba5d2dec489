package deposits

import (
	"context"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, deposit *models.Deposit) (*models.Deposit, error)
	ListByUser(ctx context.Context, userID string) ([]models.Deposit, error)
}
