package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

// ProjectsService реализует бизнес-логику работы с проектами.
//
// Сервис следит, чтобы каждый ID в authors_ids ссылался на существующего
// пользователя в момент записи. Проверка и запись идут в одной транзакции.
type ProjectsService struct {
	tx       Transactor
	users    UsersRepo
	projects ProjectsRepo
	cache    SearchCache
	sf       singleflight.Group
}

// NewProjectsService создаёт ProjectsService. Если cache == nil, кеширование выключено.
func NewProjectsService(tx Transactor, users UsersRepo, projects ProjectsRepo, cache SearchCache) *ProjectsService {
	return &ProjectsService{
		tx:       tx,
		users:    users,
		projects: projects,
		cache:    cache,
	}
}

// Create создаёт проект.
//
// Валидации:
//   - title и body не пустые;
//   - authors_ids не пустой (дубли схлопываются, порядок первого вхождения сохраняется);
//   - каждый автор существует.
//
// Ошибки:
//   - ErrInvalidInput — невалидные данные;
//   - ErrNotFound — первый несуществующий автор;
//   - ErrInternal — ошибка хранилища.
func (s *ProjectsService) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = 0
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Body) == "" {
		return models.Project{}, serr.ErrInvalidInput
	}
	p.AuthorsIDs = models.NormalizeAuthors(p.AuthorsIDs)
	if len(p.AuthorsIDs) == 0 {
		return models.Project{}, serr.ErrAuthorsEmpty
	}
	if p.Tasks == nil {
		p.Tasks = []models.Task{}
	}

	var created models.Project
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := ensureAuthorsExist(ctx, s.users, p.AuthorsIDs); err != nil {
			return err
		}
		var err error
		created, err = s.projects.Create(ctx, p)
		return err
	})
	if err != nil {
		return models.Project{}, err
	}
	invalidateCache(ctx, s.cache)
	return created, nil
}

// Get возвращает проект по ID.
func (s *ProjectsService) Get(ctx context.Context, id int64) (models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return models.Project{}, serr.ProjectNotFound(id)
		}
		return models.Project{}, err
	}
	return p, nil
}

// List возвращает все проекты, а при authorID != nil — только проекты,
// где этот пользователь среди авторов.
func (s *ProjectsService) List(ctx context.Context, authorID *int64) ([]models.Project, error) {
	if authorID != nil {
		return s.projects.ListByAuthor(ctx, *authorID)
	}
	return s.projects.List(ctx)
}

// Search ищет проекты по подстроке в title без учёта регистра.
//
// Пустой запрос возвращает пустой список, а не все проекты.
// Строка из пробелов ищется как обычная подстрока.
func (s *ProjectsService) Search(ctx context.Context, q string) ([]models.Project, error) {
	if q == "" {
		return []models.Project{}, nil
	}

	if s.cache == nil {
		return s.projects.SearchByTitle(ctx, q)
	}

	v, err, _ := s.sf.Do("projects:"+strings.ToLower(q), func() (any, error) {
		ctx := context.WithoutCancel(ctx)

		gen, genErr := s.cache.Generation(ctx)
		if genErr == nil {
			if list, ok, err := s.cache.GetProjects(ctx, gen, q); err == nil && ok {
				return list, nil
			}
		}
		list, err := s.projects.SearchByTitle(ctx, q)
		if err != nil {
			return nil, err
		}
		if genErr == nil {
			_ = s.cache.SetProjects(ctx, gen, q, list)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Project), nil
}

// Update частично обновляет проект.
//
// Авторов можно менять одним из двух способов:
//   - AuthorsIDs — полная замена, все ID должны существовать;
//   - AuthorID — добавить одного автора, если его ещё нет.
//
// Обновление атомарное: при любой ошибке проверки ничего не записывается.
//
// Ошибки:
//   - ErrInvalidInput — оба режима сразу, пустые title/body/authors_ids;
//   - ErrNotFound — нет проекта или первого несуществующего автора;
//   - ErrInternal — ошибка хранилища.
func (s *ProjectsService) Update(ctx context.Context, id int64, req smodels.UpdateProjectRequest) (models.Project, error) {
	if req.AuthorsIDs != nil && req.AuthorID != nil {
		return models.Project{}, serr.ErrAuthorsModeConflict
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return models.Project{}, serr.ErrInvalidInput
	}
	if req.Body != nil && strings.TrimSpace(*req.Body) == "" {
		return models.Project{}, serr.ErrInvalidInput
	}

	var replace []int64
	if req.AuthorsIDs != nil {
		replace = models.NormalizeAuthors(*req.AuthorsIDs)
		if len(replace) == 0 {
			return models.Project{}, serr.ErrAuthorsEmpty
		}
	}

	var updated models.Project
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// несуществующий проект важнее несуществующего автора;
		// строку проекта пока не блокируем, порядок users -> projects (см. authors.go)
		if _, err := s.projects.GetByID(ctx, id); err != nil {
			if errors.Is(err, serr.ErrNotFound) {
				return serr.ProjectNotFound(id)
			}
			return err
		}

		switch {
		case req.AuthorsIDs != nil:
			if err := ensureAuthorsExist(ctx, s.users, replace); err != nil {
				return err
			}
		case req.AuthorID != nil:
			if err := ensureAuthorsExist(ctx, s.users, []int64{*req.AuthorID}); err != nil {
				return err
			}
		}

		p, err := s.projects.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, serr.ErrNotFound) {
				return serr.ProjectNotFound(id)
			}
			return err
		}

		applyPatch(&p, req, replace)

		updated, err = s.projects.Update(ctx, p)
		return err
	})
	if err != nil {
		return models.Project{}, err
	}
	invalidateCache(ctx, s.cache)
	return updated, nil
}

func applyPatch(p *models.Project, req smodels.UpdateProjectRequest, replace []int64) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Body != nil {
		p.Body = *req.Body
	}
	if req.Underbody != nil {
		p.Underbody = *req.Underbody
	}
	if req.Tasks != nil {
		p.Tasks = *req.Tasks
		if p.Tasks == nil {
			p.Tasks = []models.Task{}
		}
	}
	switch {
	case req.AuthorsIDs != nil:
		p.AuthorsIDs = replace
	case req.AuthorID != nil && !p.HasAuthor(*req.AuthorID):
		p.AuthorsIDs = models.AddAuthor(p.AuthorsIDs, *req.AuthorID)
	}
}

// Delete удаляет проект по ID.
func (s *ProjectsService) Delete(ctx context.Context, id int64) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return serr.ProjectNotFound(id)
		}
		return err
	}
	invalidateCache(ctx, s.cache)
	return nil
}

// DeleteAll удаляет все проекты и возвращает их количество.
func (s *ProjectsService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.projects.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	invalidateCache(ctx, s.cache)
	return n, nil
}
