package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/models"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/repositories/repomanager"
)

// DepositService exposes read access to the append-only deposit ledger.
// Writes happen only through SessionService.RecordDeposit.
type DepositService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDepositService(db *sql.DB, m repomanager.RepositoryManager) *DepositService {
	return &DepositService{db: db, repomanager: m}
}

// History lists the user's deposits, newest first.
func (s *DepositService) History(ctx context.Context, userID string) ([]models.Deposit, error) {
	repo := s.repomanager.Deposits(s.db)

	result, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing deposits: %w", err)
	}

	return result, nil
}
