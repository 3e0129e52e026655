package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/utils"
)

// Авторы проверяются по порядку, дубли схлопываются, tasks по умолчанию пустой
func TestProjectsService_Create_OK(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	want := models.Project{
		Title:      "Matrix",
		Body:       "reload",
		Tasks:      []models.Task{},
		AuthorsIDs: []int64{1, 2},
	}
	gomock.InOrder(
		m.users.EXPECT().LockShared(gomock.Any(), int64(1)).Return(nil),
		m.users.EXPECT().LockShared(gomock.Any(), int64(2)).Return(nil),
		m.projects.EXPECT().Create(gomock.Any(), want).Return(models.Project{
			ID: 10, Title: "Matrix", Body: "reload", Tasks: []models.Task{}, AuthorsIDs: []int64{1, 2},
		}, nil),
	)

	got, err := svc.Create(context.Background(), models.Project{
		Title:      "Matrix",
		Body:       "reload",
		AuthorsIDs: []int64{1, 2, 1},
	})

	require.NoError(t, err)
	require.Equal(t, int64(10), got.ID)
	require.Equal(t, []int64{1, 2}, got.AuthorsIDs)
}

// Первый несуществующий автор останавливает проверку, проект не создаётся
func TestProjectsService_Create_MissingAuthor(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	gomock.InOrder(
		m.users.EXPECT().LockShared(gomock.Any(), int64(1)).Return(nil),
		m.users.EXPECT().LockShared(gomock.Any(), int64(9)).Return(serr.ErrNotFound),
	)

	_, err := svc.Create(context.Background(), models.Project{
		Title:      "Matrix",
		Body:       "reload",
		AuthorsIDs: []int64{1, 9, 12},
	})

	require.ErrorIs(t, err, serr.ErrNotFound)
	require.Contains(t, err.Error(), "author 9")
	require.NotContains(t, err.Error(), "12")
}

func TestProjectsService_Create_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		p    models.Project
	}{
		{"empty title", models.Project{Title: " ", Body: "b", AuthorsIDs: []int64{1}}},
		{"empty body", models.Project{Title: "t", Body: "", AuthorsIDs: []int64{1}}},
		{"no authors", models.Project{Title: "t", Body: "b"}},
		{"empty authors", models.Project{Title: "t", Body: "b", AuthorsIDs: []int64{}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newRepoMocks(t).services().Projects

			_, err := svc.Create(context.Background(), tc.p)

			require.ErrorIs(t, err, serr.ErrInvalidInput)
		})
	}
}

func TestProjectsService_Get_NotFound(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	m.projects.EXPECT().GetByID(gomock.Any(), int64(5)).Return(models.Project{}, serr.ErrNotFound)

	_, err := svc.Get(context.Background(), 5)

	require.ErrorIs(t, err, serr.ErrNotFound)
	require.Contains(t, err.Error(), "project 5")
}

// Фильтр по автору уходит в ListByAuthor
func TestProjectsService_List_ByAuthor(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	m.projects.EXPECT().ListByAuthor(gomock.Any(), int64(3)).Return([]models.Project{{ID: 1}}, nil)

	got, err := svc.List(context.Background(), utils.Ptr(int64(3)))

	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestProjectsService_List_All(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	m.projects.EXPECT().List(gomock.Any()).Return([]models.Project{{ID: 1}, {ID: 2}}, nil)

	got, err := svc.List(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, got, 2)
}

// Пустой запрос — пустой (не nil) список без похода в БД
func TestProjectsService_Search_Empty(t *testing.T) {
	t.Parallel()
	svc := newRepoMocks(t).cachedServices().Projects

	got, err := svc.Search(context.Background(), "")

	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

// Пробелы ищутся как подстрока
func TestProjectsService_Search_WhitespaceIsSubstring(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	found := []models.Project{{ID: 2, Title: "Big Matrix"}}
	m.projects.EXPECT().SearchByTitle(gomock.Any(), " ").Return(found, nil)

	got, err := svc.Search(context.Background(), " ")

	require.NoError(t, err)
	require.Equal(t, found, got)
}

func TestProjectsService_Search_ByTitle(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	found := []models.Project{{ID: 1, Title: "Big Matrix"}}
	m.projects.EXPECT().SearchByTitle(gomock.Any(), "matrix").Return(found, nil)

	got, err := svc.Search(context.Background(), "matrix")

	require.NoError(t, err)
	require.Equal(t, found, got)
}

func TestProjectsService_Search_CacheHit(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.cachedServices().Projects

	cached := []models.Project{{ID: 4, Title: "Zion"}}
	m.cache.EXPECT().Generation(gomock.Any()).Return(int64(2), nil)
	m.cache.EXPECT().GetProjects(gomock.Any(), int64(2), "zi").Return(cached, true, nil)

	got, err := svc.Search(context.Background(), "zi")

	require.NoError(t, err)
	require.Equal(t, cached, got)
}

// Полная замена авторов
func TestProjectsService_Update_ReplaceAuthors(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.cachedServices().Projects

	current := models.Project{ID: 1, Title: "t", Body: "b", Tasks: []models.Task{}, AuthorsIDs: []int64{1}}
	want := current
	want.AuthorsIDs = []int64{3, 2}

	gomock.InOrder(
		m.projects.EXPECT().GetByID(gomock.Any(), int64(1)).Return(current, nil),
		m.users.EXPECT().LockShared(gomock.Any(), int64(3)).Return(nil),
		m.users.EXPECT().LockShared(gomock.Any(), int64(2)).Return(nil),
		m.projects.EXPECT().GetForUpdate(gomock.Any(), int64(1)).Return(current, nil),
		m.projects.EXPECT().Update(gomock.Any(), want).Return(want, nil),
		m.cache.EXPECT().Invalidate(gomock.Any()).Return(nil),
	)

	got, err := svc.Update(context.Background(), 1, smodels.UpdateProjectRequest{
		AuthorsIDs: &[]int64{3, 2, 3},
	})

	require.NoError(t, err)
	require.Equal(t, []int64{3, 2}, got.AuthorsIDs)
}

// Замена с несуществующим автором ничего не пишет
func TestProjectsService_Update_ReplaceMissingAuthor(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	gomock.InOrder(
		m.projects.EXPECT().GetByID(gomock.Any(), int64(1)).Return(models.Project{ID: 1}, nil),
		m.users.EXPECT().LockShared(gomock.Any(), int64(2)).Return(nil),
		m.users.EXPECT().LockShared(gomock.Any(), int64(99)).Return(serr.ErrNotFound),
	)

	_, err := svc.Update(context.Background(), 1, smodels.UpdateProjectRequest{
		Title:      utils.StrPtr("new title"),
		AuthorsIDs: &[]int64{2, 99},
	})

	require.ErrorIs(t, err, serr.ErrNotFound)
	require.Contains(t, err.Error(), "author 99")
}

// Добавление автора, который уже есть, список не меняет
func TestProjectsService_Update_AddExistingAuthor(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	current := models.Project{ID: 1, Title: "t", Body: "b", Tasks: []models.Task{}, AuthorsIDs: []int64{1, 2}}

	m.projects.EXPECT().GetByID(gomock.Any(), int64(1)).Return(current, nil)
	m.users.EXPECT().LockShared(gomock.Any(), int64(2)).Return(nil)
	m.projects.EXPECT().GetForUpdate(gomock.Any(), int64(1)).Return(current, nil)
	m.projects.EXPECT().Update(gomock.Any(), current).Return(current, nil)

	got, err := svc.Update(context.Background(), 1, smodels.UpdateProjectRequest{AuthorID: utils.Ptr(int64(2))})

	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, got.AuthorsIDs)
}

// Новый автор добавляется в конец
func TestProjectsService_Update_AddNewAuthor(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	current := models.Project{ID: 1, Title: "t", Body: "b", Tasks: []models.Task{}, AuthorsIDs: []int64{1}}
	want := current
	want.AuthorsIDs = []int64{1, 5}

	m.projects.EXPECT().GetByID(gomock.Any(), int64(1)).Return(current, nil)
	m.users.EXPECT().LockShared(gomock.Any(), int64(5)).Return(nil)
	m.projects.EXPECT().GetForUpdate(gomock.Any(), int64(1)).Return(current, nil)
	m.projects.EXPECT().Update(gomock.Any(), want).Return(want, nil)

	got, err := svc.Update(context.Background(), 1, smodels.UpdateProjectRequest{AuthorID: utils.Ptr(int64(5))})

	require.NoError(t, err)
	require.Equal(t, []int64{1, 5}, got.AuthorsIDs)
}

// Поля без авторов: авторы не проверяются, tasks заменяются целиком
func TestProjectsService_Update_FieldsOnly(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	current := models.Project{ID: 1, Title: "t", Body: "b", Tasks: []models.Task{{"title": "old"}}, AuthorsIDs: []int64{1}}
	tasks := []models.Task{{"title": "new", "status": "todo"}}
	want := current
	want.Underbody = "footer"
	want.Tasks = tasks

	m.projects.EXPECT().GetByID(gomock.Any(), int64(1)).Return(current, nil)
	m.projects.EXPECT().GetForUpdate(gomock.Any(), int64(1)).Return(current, nil)
	m.projects.EXPECT().Update(gomock.Any(), want).Return(want, nil)

	got, err := svc.Update(context.Background(), 1, smodels.UpdateProjectRequest{
		Underbody: utils.StrPtr("footer"),
		Tasks:     &tasks,
	})

	require.NoError(t, err)
	require.Equal(t, "footer", got.Underbody)
	require.Equal(t, tasks, got.Tasks)
}

func TestProjectsService_Update_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  smodels.UpdateProjectRequest
	}{
		{"both author modes", smodels.UpdateProjectRequest{AuthorsIDs: &[]int64{1}, AuthorID: utils.Ptr(int64(2))}},
		{"empty replacement", smodels.UpdateProjectRequest{AuthorsIDs: &[]int64{}}},
		{"blank title", smodels.UpdateProjectRequest{Title: utils.StrPtr("  ")}},
		{"empty body", smodels.UpdateProjectRequest{Body: utils.StrPtr("")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newRepoMocks(t).services().Projects

			_, err := svc.Update(context.Background(), 1, tc.req)

			require.ErrorIs(t, err, serr.ErrInvalidInput)
		})
	}
}

func TestProjectsService_Update_ProjectNotFound(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	m.projects.EXPECT().GetByID(gomock.Any(), int64(8)).Return(models.Project{}, serr.ErrNotFound)

	_, err := svc.Update(context.Background(), 8, smodels.UpdateProjectRequest{Title: utils.StrPtr("x")})

	require.ErrorIs(t, err, serr.ErrNotFound)
	require.Contains(t, err.Error(), "project 8")
}

// Нет ни проекта, ни автора: ответ про проект, авторы не проверяются
func TestProjectsService_Update_ProjectNotFoundBeforeAuthor(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	m.projects.EXPECT().GetByID(gomock.Any(), int64(99)).Return(models.Project{}, serr.ErrNotFound)

	_, err := svc.Update(context.Background(), 99, smodels.UpdateProjectRequest{AuthorID: utils.Ptr(int64(7))})

	require.ErrorIs(t, err, serr.ErrNotFound)
	require.Contains(t, err.Error(), "project 99")
	require.NotContains(t, err.Error(), "author")
}

// Проект удалили между проверкой и блокировкой
func TestProjectsService_Update_ProjectGoneBeforeLock(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	gomock.InOrder(
		m.projects.EXPECT().GetByID(gomock.Any(), int64(8)).Return(models.Project{ID: 8}, nil),
		m.projects.EXPECT().GetForUpdate(gomock.Any(), int64(8)).Return(models.Project{}, serr.ErrNotFound),
	)

	_, err := svc.Update(context.Background(), 8, smodels.UpdateProjectRequest{Title: utils.StrPtr("x")})

	require.ErrorIs(t, err, serr.ErrNotFound)
	require.Contains(t, err.Error(), "project 8")
}

func TestProjectsService_Delete(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.cachedServices().Projects

	m.projects.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)
	m.cache.EXPECT().Invalidate(gomock.Any()).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
}

func TestProjectsService_Delete_NotFound(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	m.projects.EXPECT().Delete(gomock.Any(), int64(1)).Return(serr.ErrNotFound)

	err := svc.Delete(context.Background(), 1)

	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestProjectsService_DeleteAll(t *testing.T) {
	t.Parallel()
	m := newRepoMocks(t)
	svc := m.services().Projects

	m.projects.EXPECT().DeleteAll(gomock.Any()).Return(int64(4), nil)

	n, err := svc.DeleteAll(context.Background())

	require.NoError(t, err)
	require.Equal(t, int64(4), n)
}
