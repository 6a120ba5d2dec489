package deposits

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

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

const insertQ = `(?s)^INSERT\s+INTO\s+deposits\s*\(id,\s*user_id,\s*machine_id,\s*count\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at\s*$`

func TestAppend_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs(sqlmock.AnyArg(), "u-1", "M1", 5).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	d := &models.Deposit{UserID: "u-1", MachineID: "M1", Count: 5}
	got, err := repo.Append(context.Background(), d)
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected deposit: %+v", got)
	}
}

func TestAppend_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Append(context.Background(), &models.Deposit{UserID: "u-1", MachineID: "M1", Count: 5})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestListByUser_ReturnsNewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*machine_id,\s*count,\s*created_at\s+FROM\s+deposits\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "machine_id", "count", "created_at"}).
		AddRow("d-2", "u-1", "M2", 3, now).
		AddRow("d-1", "u-1", "M1", 5, now.Add(-time.Hour))
	mock.ExpectQuery(q).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "d-2" || got[1].Count != 5 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+deposits\s+WHERE\s+user_id\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "machine_id", "count", "created_at"}))

	got, err := repo.ListByUser(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %+v", got)
	}
}
