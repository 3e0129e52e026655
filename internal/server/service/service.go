// Package service содержит бизнес-логику приложения (projecthub).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
//
// Здесь же живут правила согласованности пользователей и проектов:
// проверка ссылок на авторов и каскадная чистка списков авторов при удалении.
package service

import (
	"context"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_repos.go -package=mocks

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Tx       Transactor
	Users    UsersRepo
	Projects ProjectsRepo
	Health   HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Users    *UsersService
	Projects *ProjectsService
	Health   HealthRepo
}

// NewServices собирает все сервисы приложения.
// cache может быть nil — тогда поиск всегда идёт в БД.
func NewServices(repos Repositories, cache SearchCache) *Services {
	return &Services{
		Users:    NewUsersService(repos.Tx, repos.Users, repos.Projects, cache),
		Projects: NewProjectsService(repos.Tx, repos.Users, repos.Projects, cache),
		Health:   repos.Health,
	}
}

// Transactor выполняет fn в одной транзакции БД.
//
// Транзакция передаётся репозиториям через ctx, поэтому внутри fn
// нужно использовать именно переданный ctx. Ошибка fn откатывает транзакцию.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей.
type UsersRepo interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// Search ищет подстроку q в nickname/fullname/email без учёта регистра,
	// а если id != nil — ещё и точное совпадение по ID.
	Search(ctx context.Context, q string, id *int64) ([]models.User, error)
	// LockShared проверяет существование пользователя и берёт FOR SHARE
	// блокировку до конца транзакции.
	LockShared(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// ProjectsRepo — репозиторий проектов.
type ProjectsRepo interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	GetByID(ctx context.Context, id int64) (models.Project, error)
	GetForUpdate(ctx context.Context, id int64) (models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	ListByAuthor(ctx context.Context, userID int64) ([]models.Project, error)
	ListByAuthorForUpdate(ctx context.Context, userID int64) ([]models.Project, error)
	SearchByTitle(ctx context.Context, q string) ([]models.Project, error)
	Update(ctx context.Context, p models.Project) (models.Project, error)
	SetAuthors(ctx context.Context, id int64, authorsIDs []int64) error
	ResetAllAuthors(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// SearchCache — кеш результатов поиска.
//
// Записи привязаны к поколению: Generation читают до похода в БД и передают
// в Get*/Set*. Invalidate сдвигает поколение, поэтому выдача, посчитанная
// до записи, сохраняется под старым номером и больше не читается.
// Get* возвращают ok=false при промахе. Invalidate вызывают после любой записи.
type SearchCache interface {
	Generation(ctx context.Context) (int64, error)
	GetUsers(ctx context.Context, gen int64, q string) ([]models.User, bool, error)
	SetUsers(ctx context.Context, gen int64, q string, users []models.User) error
	GetProjects(ctx context.Context, gen int64, q string) ([]models.Project, bool, error)
	SetProjects(ctx context.Context, gen int64, q string, projects []models.Project) error
	Invalidate(ctx context.Context) error
}

// invalidateCache сбрасывает кеш поиска, ошибки кеша не ломают запись.
func invalidateCache(ctx context.Context, c SearchCache) {
	if c == nil {
		return
	}
	_ = c.Invalidate(ctx)
}
