package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/common"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ  = `(?s)^INSERT\s+INTO\s+machine_sessions\s*\(id,\s*machine_id,\s*code,\s*status,\s*created_at,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*ON\s+CONFLICT\s*\(code\)\s*DO\s+NOTHING\s*RETURNING\s+id\s*$`
	recycleQ = `(?s)^UPDATE\s+machine_sessions\s+SET\s+id\s*=\s*\$1,.*WHERE\s+code\s*=\s*\$3\s+AND\s+expires_at\s*<=\s*\$5\s*RETURNING\s+id\s*$`
	bindQ    = `(?s)^UPDATE\s+machine_sessions\s+SET\s+user_id\s*=\s*\$2,\s*status\s*=\s*\$3\s+WHERE\s+code\s*=\s*\$1\s+AND\s+status\s*=\s*\$4\s*RETURNING\s+id\s*$`
	consumeQ = `(?s)^UPDATE\s+machine_sessions\s+SET\s+status\s*=\s*\$2\s+WHERE\s+code\s*=\s*\$1\s+AND\s+status\s*=\s*\$3\s*RETURNING\s+user_id\s*$`
)

func pendingSession(code string) *models.MachineSession {
	now := time.Now()
	return &models.MachineSession{
		MachineID: "M1",
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
}

func TestCreate_FreshCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s-1"))

	got, err := repo.Create(context.Background(), pendingSession("ABC"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Status != models.SessionPending {
		t.Fatalf("expected PENDING, got %s", got.Status)
	}
}

func TestCreate_RecyclesExpiredHolder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// insert conflicts, guarded update takes over the expired row
	mock.ExpectQuery(insertQ).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(recycleQ).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s-2"))

	got, err := repo.Create(context.Background(), pendingSession("ABC"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Status != models.SessionPending {
		t.Fatalf("expected PENDING, got %s", got.Status)
	}
}

func TestCreate_LiveCodeInUse(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(recycleQ).WillReturnError(sql.ErrNoRows)

	_, err := repo.Create(context.Background(), pendingSession("ABC"))
	if !errors.Is(err, common.ErrCodeInUse) {
		t.Fatalf("expected common.ErrCodeInUse, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), pendingSession("ABC"))
	if err == nil || errors.Is(err, common.ErrCodeInUse) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByCode_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*machine_id,\s*code,\s*user_id,\s*status,\s*created_at,\s*expires_at\s+FROM\s+machine_sessions\s+WHERE\s+code\s*=\s*\$1\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "machine_id", "code", "user_id", "status", "created_at", "expires_at"}).
		AddRow("s-1", "M1", "ABC", nil, "PENDING", now, now.Add(10*time.Minute))
	mock.ExpectQuery(q).WithArgs("ABC").WillReturnRows(rows)

	got, err := repo.GetByCode(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("GetByCode error: %v", err)
	}
	if got.Status != models.SessionPending || got.UserID != "" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.Live(now) {
		t.Fatalf("expected session to be live")
	}
}

func TestGetByCode_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+machine_sessions\s+WHERE\s+code\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("NOPE").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByCode(context.Background(), "NOPE")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestBind_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(bindQ).
		WithArgs("ABC", "u-1", string(models.SessionActive), string(models.SessionPending)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s-1"))

	if err := repo.Bind(context.Background(), "ABC", "u-1"); err != nil {
		t.Fatalf("Bind error: %v", err)
	}
}

func TestBind_NotPending(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(bindQ).WillReturnError(sql.ErrNoRows)

	err := repo.Bind(context.Background(), "ABC", "u-1")
	if !errors.Is(err, common.ErrInvalidCode) {
		t.Fatalf("expected common.ErrInvalidCode, got %v", err)
	}
}

func TestConsume_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(consumeQ).
		WithArgs("ABC", string(models.SessionUsed), string(models.SessionActive)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u-1"))

	userID, err := repo.Consume(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("Consume error: %v", err)
	}
	if userID != "u-1" {
		t.Fatalf("expected bound user u-1, got %q", userID)
	}
}

func TestConsume_NotActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(consumeQ).WillReturnError(sql.ErrNoRows)

	_, err := repo.Consume(context.Background(), "ABC")
	if !errors.Is(err, common.ErrInvalidSession) {
		t.Fatalf("expected common.ErrInvalidSession, got %v", err)
	}
}
