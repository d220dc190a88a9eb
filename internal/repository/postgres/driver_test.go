package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	})
	return db, mock
}

func TestDriverRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO drivers (name, vin, active) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs("Bo", "V1", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	driver := &domain.Driver{Name: "Bo", VIN: "V1"}
	if err := NewDriverRepository(db).Create(context.Background(), driver); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if driver.ID != 11 {
		t.Errorf("expected ID 11, got %d", driver.ID)
	}
}

func TestDriverRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, vin, active FROM drivers WHERE id = $1`)).
		WithArgs(int64(-1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "vin", "active"}))

	if _, err := NewDriverRepository(db).GetByID(context.Background(), -1); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestDriverRepository_ListAvailable_LocksRowsInIDOrder(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`WHERE active = false AND id > \$1 ORDER BY id LIMIT \$2 FOR UPDATE SKIP LOCKED`).
		WithArgs(int64(0), 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "vin", "active"}).
			AddRow(int64(2), "a", "V2", false).
			AddRow(int64(4), "b", "V4", false))

	drivers, err := NewDriverRepository(db).ListAvailable(context.Background(), 0, 5)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(drivers) != 2 || drivers[0].ID != 2 || drivers[1].ID != 4 {
		t.Errorf("unexpected drivers: %+v", drivers)
	}
}

func TestDriverRepository_Claim(t *testing.T) {
	claimQuery := regexp.QuoteMeta(`UPDATE drivers SET active = true, updated_at = NOW() WHERE id = $1 AND active = false`)

	t.Run("available driver", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(claimQuery).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))

		if err := NewDriverRepository(db).Claim(context.Background(), 3); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	t.Run("already active", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(claimQuery).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))

		if err := NewDriverRepository(db).Claim(context.Background(), 3); !errors.Is(err, repository.ErrConflict) {
			t.Errorf("expected ErrConflict, got: %v", err)
		}
	})
}

func TestDriverRepository_Update_MissingRow(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`UPDATE drivers SET name = \$1, vin = \$2, active = \$3`).
		WithArgs("Bo", "V1", true, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewDriverRepository(db).Update(context.Background(), &domain.Driver{ID: 9, Name: "Bo", VIN: "V1", Active: true})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestDriverRepository_Delete_ForeignKeyViolation(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM drivers WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "trips_driver_id_fkey"})

	err := NewDriverRepository(db).Delete(context.Background(), 1)
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("expected ErrConflict, got: %v", err)
	}
}

func TestDriverRepository_Counts(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM drivers`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM drivers WHERE active = false`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := NewDriverRepository(db)
	total, err := repo.Count(context.Background())
	if err != nil || total != 7 {
		t.Errorf("expected 7 drivers, got %d (%v)", total, err)
	}
	available, err := repo.CountAvailable(context.Background())
	if err != nil || available != 3 {
		t.Errorf("expected 3 available, got %d (%v)", available, err)
	}
}
