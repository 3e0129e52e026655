package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jackc/pgtype"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

const projectColumns = `id, title, body, underbody, tasks, authors_ids`

// ProjectsRepository хранит проекты в PostgreSQL.
//
// tasks лежит в jsonb, authors_ids — в bigint[] (порядок сохраняется).
type ProjectsRepository struct {
	db   *sql.DB
	opts options
}

// NewProjectsRepository создаёт новый экземпляр ProjectsRepository.
func NewProjectsRepository(db *sql.DB, opts ...Option) *ProjectsRepository {
	return &ProjectsRepository{db: db, opts: newOptions(opts)}
}

// Create сохраняет проект и возвращает его с назначенным ID.
// Существование авторов здесь не проверяется.
func (r *ProjectsRepository) Create(ctx context.Context, p models.Project) (models.Project, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	tasks, authors, err := encodeProject(p)
	if err != nil {
		return models.Project{}, serr.ErrInternal
	}

	err = conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO projects (title, body, underbody, tasks, authors_ids)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING id
	`,
		p.Title, p.Body, p.Underbody, tasks, authors,
	).Scan(&p.ID)
	if err != nil {
		return models.Project{}, mapError(err)
	}
	return p, nil
}

func (r *ProjectsRepository) GetByID(ctx context.Context, id int64) (models.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM projects WHERE id=$1`, id)
}

// GetForUpdate читает проект и блокирует строку до конца транзакции.
func (r *ProjectsRepository) GetForUpdate(ctx context.Context, id int64) (models.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM projects WHERE id=$1 FOR UPDATE`, id)
}

func (r *ProjectsRepository) List(ctx context.Context) ([]models.Project, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
}

// ListByAuthor возвращает проекты, где userID среди авторов.
func (r *ProjectsRepository) ListByAuthor(ctx context.Context, userID int64) ([]models.Project, error) {
	return r.query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE authors_ids @> ARRAY[$1::bigint] ORDER BY id`,
		userID,
	)
}

// ListByAuthorForUpdate — то же, что ListByAuthor, но с блокировкой строк.
// Используется при каскадной чистке авторов.
func (r *ProjectsRepository) ListByAuthorForUpdate(ctx context.Context, userID int64) ([]models.Project, error) {
	return r.query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE authors_ids @> ARRAY[$1::bigint] ORDER BY id FOR UPDATE`,
		userID,
	)
}

// SearchByTitle ищет подстроку в title без учёта регистра.
func (r *ProjectsRepository) SearchByTitle(ctx context.Context, q string) ([]models.Project, error) {
	return r.query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE title ILIKE $1 ESCAPE '\' ORDER BY id`,
		likePattern(q),
	)
}

// Update перезаписывает все изменяемые поля проекта.
func (r *ProjectsRepository) Update(ctx context.Context, p models.Project) (models.Project, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	tasks, authors, err := encodeProject(p)
	if err != nil {
		return models.Project{}, serr.ErrInternal
	}

	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE projects
		   SET title = $2,
		       body = $3,
		       underbody = $4,
		       tasks = $5::jsonb,
		       authors_ids = $6
		 WHERE id = $1
	`,
		p.ID, p.Title, p.Body, p.Underbody, tasks, authors,
	)
	if err != nil {
		return models.Project{}, serr.ErrInternal
	}
	if err := affectedOrNotFound(res); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// SetAuthors заменяет только список авторов.
func (r *ProjectsRepository) SetAuthors(ctx context.Context, id int64, authorsIDs []int64) error {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	authors, err := int8Array(authorsIDs)
	if err != nil {
		return serr.ErrInternal
	}
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE projects SET authors_ids = $2 WHERE id = $1`,
		id, authors,
	)
	if err != nil {
		return serr.ErrInternal
	}
	return affectedOrNotFound(res)
}

// ResetAllAuthors очищает списки авторов у всех проектов,
// возвращает количество изменённых проектов.
func (r *ProjectsRepository) ResetAllAuthors(ctx context.Context) (int64, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE projects SET authors_ids = '{}' WHERE cardinality(authors_ids) > 0`,
	)
	if err != nil {
		return 0, serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, serr.ErrInternal
	}
	return n, nil
}

func (r *ProjectsRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return serr.ErrInternal
	}
	return affectedOrNotFound(res)
}

func (r *ProjectsRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM projects`)
	if err != nil {
		return 0, serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, serr.ErrInternal
	}
	return n, nil
}

func (r *ProjectsRepository) get(ctx context.Context, query string, id int64) (models.Project, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	p, err := scanProject(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return models.Project{}, mapError(err)
	}
	return p, nil
}

func (r *ProjectsRepository) query(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, serr.ErrInternal
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return projects, nil
}

func scanProject(s scanner) (models.Project, error) {
	var (
		p       models.Project
		tasks   []byte
		authors pgtype.Int8Array
	)
	if err := s.Scan(&p.ID, &p.Title, &p.Body, &p.Underbody, &tasks, &authors); err != nil {
		return models.Project{}, err
	}

	p.Tasks = []models.Task{}
	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &p.Tasks); err != nil {
			return models.Project{}, err
		}
		if p.Tasks == nil {
			p.Tasks = []models.Task{}
		}
	}

	if err := authors.AssignTo(&p.AuthorsIDs); err != nil {
		return models.Project{}, err
	}
	if p.AuthorsIDs == nil {
		p.AuthorsIDs = []int64{}
	}
	return p, nil
}

func encodeProject(p models.Project) (string, pgtype.Int8Array, error) {
	tasks := p.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return "", pgtype.Int8Array{}, err
	}
	authors, err := int8Array(p.AuthorsIDs)
	if err != nil {
		return "", pgtype.Int8Array{}, err
	}
	return string(raw), authors, nil
}

func int8Array(ids []int64) (pgtype.Int8Array, error) {
	if ids == nil {
		ids = []int64{}
	}
	var arr pgtype.Int8Array
	if err := arr.Set(ids); err != nil {
		return pgtype.Int8Array{}, err
	}
	return arr, nil
}
