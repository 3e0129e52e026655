package repository

import (
	"context"
	"database/sql"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

const userColumns = `id, nickname, fullname, class, speciality, email`

// UsersRepository хранит пользователей в PostgreSQL.
type UsersRepository struct {
	db   *sql.DB
	opts options
}

func NewUsersRepository(db *sql.DB, opts ...Option) *UsersRepository {
	return &UsersRepository{db: db, opts: newOptions(opts)}
}

// Create добавляет пользователя и возвращает его с назначенным ID.
//
// Ошибки:
//   - ErrAlreadyExists — nickname занят;
//   - ErrInternal — ошибка базы данных.
func (r *UsersRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	err := conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO users (nickname, fullname, class, speciality, email)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id`,
		u.Nickname, u.Fullname, u.Class, u.Speciality, u.Email,
	).Scan(&u.ID)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	row := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`,
		id,
	)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}

func (r *UsersRepository) List(ctx context.Context) ([]models.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

// Search ищет подстроку без учёта регистра в nickname, fullname и email.
// Если id != nil, строка с таким ID тоже попадает в выдачу.
func (r *UsersRepository) Search(ctx context.Context, q string, id *int64) ([]models.User, error) {
	return r.query(ctx,
		`SELECT `+userColumns+`
		   FROM users
		  WHERE nickname ILIKE $1 ESCAPE '\'
		     OR fullname ILIKE $1 ESCAPE '\'
		     OR email    ILIKE $1 ESCAPE '\'
		     OR ($2::bigint IS NOT NULL AND id = $2)
		  ORDER BY id`,
		likePattern(q), id,
	)
}

// LockShared держит строку пользователя под FOR SHARE до конца транзакции.
// Параллельный DELETE этого пользователя будет ждать commit.
func (r *UsersRepository) LockShared(ctx context.Context, id int64) error {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	var got int64
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id FROM users WHERE id=$1 FOR SHARE`,
		id,
	).Scan(&got)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *UsersRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return serr.ErrInternal
	}
	return affectedOrNotFound(res)
}

// DeleteAll удаляет всех пользователей и возвращает их количество.
func (r *UsersRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, serr.ErrInternal
	}
	return n, nil
}

func (r *UsersRepository) query(ctx context.Context, query string, args ...any) ([]models.User, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, serr.ErrInternal
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return users, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (models.User, error) {
	var (
		u          models.User
		speciality sql.NullString
	)
	if err := s.Scan(&u.ID, &u.Nickname, &u.Fullname, &u.Class, &speciality, &u.Email); err != nil {
		return models.User{}, err
	}
	if speciality.Valid {
		sp := speciality.String
		u.Speciality = &sp
	}
	return u, nil
}
