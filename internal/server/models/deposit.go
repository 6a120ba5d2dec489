package models

import "time"

// Deposit is one completed drop-off. Rows are append-only: the machine id is
// taken from the deposit request as-is and the user id is copied from the
// consumed session.
type Deposit struct {
	ID        string
	UserID    string
	MachineID string
	Count     int
	CreatedAt time.Time
}
