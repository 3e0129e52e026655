package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

// Зависший запрос обрывается по query_timeout
func TestQueryTimeout_CancelsSlowQuery(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db, repository.WithQueryTimeout(50*time.Millisecond))

	mock.ExpectQuery(`FROM users WHERE id=\$1`).
		WithArgs(int64(1)).
		WillDelayFor(2 * time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nickname", "fullname", "class", "speciality", "email"}).
			AddRow(int64(1), "neo", "Neo", 0.0, nil, "neo@matrix.io"))

	start := time.Now()
	_, err := repo.GetByID(context.Background(), 1)

	if !errors.Is(err, serr.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("query was not cancelled in time: %v", elapsed)
	}
}

func TestQueryTimeout_SlowExec(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewProjectsRepository(db, repository.WithQueryTimeout(50*time.Millisecond))

	mock.ExpectExec(`DELETE FROM projects`).
		WillDelayFor(2 * time.Second).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if _, err := repo.DeleteAll(context.Background()); !errors.Is(err, serr.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

// Транзакция получает дедлайн, без таймаута его нет
func TestQueryTimeout_TransactionDeadline(t *testing.T) {
	cases := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{"with timeout", time.Second, true},
		{"without timeout", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, _ := sqlmock.New()
			defer db.Close()

			tx := repository.NewTransactor(db, repository.WithQueryTimeout(tc.timeout))

			mock.ExpectBegin()
			mock.ExpectCommit()

			var hasDeadline bool
			err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
				_, hasDeadline = ctx.Deadline()
				return nil
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hasDeadline != tc.wantDeadline {
				t.Fatalf("expected deadline=%t, got %t", tc.wantDeadline, hasDeadline)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}
