package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

// те же правила, что и у тегов validate в api
var validate = validator.New(validator.WithRequiredStructEnabled())

// UsersService реализует бизнес-логику работы с пользователями.
//
// Удаление пользователя каскадно чистит списки авторов проектов.
type UsersService struct {
	tx       Transactor
	users    UsersRepo
	projects ProjectsRepo
	cache    SearchCache
	sf       singleflight.Group
}

// NewUsersService создаёт UsersService. Если cache == nil, кеширование выключено.
func NewUsersService(tx Transactor, users UsersRepo, projects ProjectsRepo, cache SearchCache) *UsersService {
	return &UsersService{
		tx:       tx,
		users:    users,
		projects: projects,
		cache:    cache,
	}
}

// Create создаёт пользователя.
//
// Валидация:
//   - nickname, fullname, email обязательны;
//   - email должен быть валидным;
//   - class не может быть отрицательным.
//
// Ошибки:
//   - ErrInvalidInput — невалидные данные;
//   - ErrAlreadyExists — nickname уже занят;
//   - ErrInternal — ошибка хранилища.
func (s *UsersService) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = 0
	u.Nickname = strings.TrimSpace(u.Nickname)
	u.Fullname = strings.TrimSpace(u.Fullname)
	u.Email = strings.TrimSpace(u.Email)

	if u.Nickname == "" || u.Fullname == "" || u.Class < 0 {
		return models.User{}, serr.ErrInvalidInput
	}
	if err := validate.Var(u.Email, "required,email"); err != nil {
		return models.User{}, serr.ErrInvalidInput
	}
	if u.Speciality != nil {
		sp := strings.TrimSpace(*u.Speciality)
		if sp == "" {
			u.Speciality = nil
		} else {
			u.Speciality = &sp
		}
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	invalidateCache(ctx, s.cache)
	return created, nil
}

// Get возвращает пользователя по ID.
func (s *UsersService) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return models.User{}, serr.UserNotFound(id)
		}
		return models.User{}, err
	}
	return u, nil
}

// List возвращает всех пользователей.
func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Search ищет пользователей.
//
// Пустой запрос возвращает всех пользователей. Пробелы не обрезаются и
// ищутся как обычная подстрока. Если q — целое число, то совпадение по ID
// учитывается наравне с совпадением подстроки в nickname/fullname/email
// (без учёта регистра).
func (s *UsersService) Search(ctx context.Context, q string) ([]models.User, error) {
	if q == "" {
		return s.users.List(ctx)
	}

	var id *int64
	if n, err := strconv.ParseInt(q, 10, 64); err == nil {
		id = &n
	}

	if s.cache == nil {
		return s.users.Search(ctx, q, id)
	}

	v, err, _ := s.sf.Do("users:"+strings.ToLower(q), func() (any, error) {
		// результат делят все ждущие, отмена первого клиента не должна их ронять
		ctx := context.WithoutCancel(ctx)

		gen, genErr := s.cache.Generation(ctx)
		if genErr == nil {
			if list, ok, err := s.cache.GetUsers(ctx, gen, q); err == nil && ok {
				return list, nil
			}
		}
		list, err := s.users.Search(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if genErr == nil {
			_ = s.cache.SetUsers(ctx, gen, q, list)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.User), nil
}

// Delete удаляет пользователя и убирает его ID из списков авторов
// всех проектов. Всё в одной транзакции.
//
// Ошибки:
//   - ErrNotFound — пользователя нет;
//   - ErrInternal — ошибка хранилища.
func (s *UsersService) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Delete(ctx, id); err != nil {
			if errors.Is(err, serr.ErrNotFound) {
				return serr.UserNotFound(id)
			}
			return err
		}
		return detachAuthor(ctx, s.projects, id)
	})
	if err != nil {
		return err
	}
	invalidateCache(ctx, s.cache)
	return nil
}

// DeleteAll удаляет всех пользователей.
//
// Вместо поштучной чистки списки авторов всех проектов просто обнуляются:
// после удаления всех пользователей ни одна ссылка не может остаться валидной.
// Возвращает количество удалённых пользователей.
func (s *UsersService) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.users.DeleteAll(ctx)
		if err != nil {
			return err
		}
		if _, err := s.projects.ResetAllAuthors(ctx); err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	invalidateCache(ctx, s.cache)
	return deleted, nil
}
