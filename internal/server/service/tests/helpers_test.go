package tests

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/service"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/service/mocks"
)

// repoMocks — все моки, нужные сервисам.
type repoMocks struct {
	tx       *mocks.MockTransactor
	users    *mocks.MockUsersRepo
	projects *mocks.MockProjectsRepo
	cache    *mocks.MockSearchCache
}

// helper: моки репозиториев и Transactor, который просто вызывает fn
func newRepoMocks(t *testing.T) *repoMocks {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &repoMocks{
		tx:       mocks.NewMockTransactor(ctrl),
		users:    mocks.NewMockUsersRepo(ctrl),
		projects: mocks.NewMockProjectsRepo(ctrl),
		cache:    mocks.NewMockSearchCache(ctrl),
	}
	m.tx.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
	return m
}

// сервисы без кеша
func (m *repoMocks) services() *service.Services {
	return service.NewServices(service.Repositories{
		Tx:       m.tx,
		Users:    m.users,
		Projects: m.projects,
	}, nil)
}

// сервисы с кешем
func (m *repoMocks) cachedServices() *service.Services {
	return service.NewServices(service.Repositories{
		Tx:       m.tx,
		Users:    m.users,
		Projects: m.projects,
	}, m.cache)
}
