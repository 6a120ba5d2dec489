package models

import "time"

// SessionStatus is the stored state of a machine session. Transitions go
// PENDING → ACTIVE → USED only; USED is terminal. Expiry never rewrites the
// stored status, it only gates code reuse and new deposits.
type SessionStatus string

const (
	SessionPending SessionStatus = "PENDING"
	SessionActive  SessionStatus = "ACTIVE"
	SessionUsed    SessionStatus = "USED"
)

// MachineSession ties a machine-displayed code to the user who scanned it.
// UserID is empty exactly while the status is PENDING.
type MachineSession struct {
	ID        string
	MachineID string
	Code      string
	UserID    string
	Status    SessionStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Live reports whether the session still blocks reuse of its code.
func (s *MachineSession) Live(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
