// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

// querier — общее у *sql.DB и *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Option настраивает репозитории и Transactor.
type Option func(*options)

type options struct {
	queryTimeout time.Duration
}

// WithQueryTimeout ограничивает время одного запроса вне транзакции
// и всей транзакции целиком. 0 — без ограничения.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) {
		o.queryTimeout = d
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// withTimeout вешает queryTimeout на ctx. Внутри транзакции дедлайн
// уже поставил WithinTx, второй не нужен.
func (o options) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.queryTimeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.queryTimeout)
}

// Transactor открывает транзакции и кладёт *sql.Tx в context.
// Репозитории берут соединение через conn и сами не знают, идёт ли транзакция.
type Transactor struct {
	db   *sql.DB
	opts options
}

// NewTransactor создаёт Transactor поверх пула соединений.
func NewTransactor(db *sql.DB, opts ...Option) *Transactor {
	return &Transactor{db: db, opts: newOptions(opts)}
}

// WithinTx выполняет fn в транзакции.
//
// Вложенный вызов переиспользует уже открытую транзакцию.
// Ошибка fn откатывает транзакцию и возвращается как есть.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	ctx, cancel := t.opts.withTimeout(ctx)
	defer cancel()

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return serr.ErrInternal
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// conn возвращает транзакцию из ctx или пул.
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// mapError приводит ошибку драйвера к доменной.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return serr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return serr.ErrAlreadyExists
	}
	return serr.ErrInternal
}

// likePattern экранирует спецсимволы LIKE, запрос ищется как подстрока.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// affectedOrNotFound: 0 затронутых строк значит, что записи нет.
func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}
