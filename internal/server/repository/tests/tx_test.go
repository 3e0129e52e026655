package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

// Запросы внутри fn идут в транзакцию, в конце commit
func TestTransactor_WithinTx_Commit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	tx := repository.NewTransactor(db)
	users := repository.NewUsersRepository(db)
	projects := repository.NewProjectsRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM users WHERE id=\$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE projects SET authors_ids`).
		WithArgs(int64(1), "{3}").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		if err := users.Delete(ctx, 7); err != nil {
			return err
		}
		return projects.SetAuthors(ctx, 1, []int64{3})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Ошибка fn откатывает транзакцию и возвращается без изменений
func TestTransactor_WithinTx_Rollback(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	tx := repository.NewTransactor(db)
	users := repository.NewUsersRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR SHARE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`FOR SHARE`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		for _, id := range []int64{1, 99} {
			if err := users.LockShared(ctx, id); err != nil {
				return serr.AuthorNotFound(id)
			}
		}
		return nil
	})
	if !errors.Is(err, serr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactor_WithinTx_BeginError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	tx := repository.NewTransactor(db)

	mock.ExpectBegin().WillReturnError(errors.New("no connections"))

	called := false
	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, serr.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run without transaction")
	}
}

// Вложенный вызов не открывает вторую транзакцию
func TestTransactor_WithinTx_Nested(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	tx := repository.NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return tx.WithinTx(ctx, func(context.Context) error { return nil })
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHealthRepository_Ping(t *testing.T) {
	db, mock, _ := sqlmock.New(sqlmock.MonitorPingsOption(true))
	defer db.Close()

	repo := repository.NewHealthRepository(db)

	mock.ExpectPing()
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectPing().WillReturnError(errors.New("down"))
	if err := repo.Ping(context.Background()); !errors.Is(err, serr.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
