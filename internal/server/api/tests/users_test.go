package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/api"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

func TestHandler_CreateUser_Created(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, u models.User) (models.User, error) {
			u.ID = 1
			return u, nil
		})

	rec := env.do(http.MethodPost, "/users", api.CreateUserRequest{
		Nickname: "neo",
		Fullname: "Thomas Anderson",
		Class:    10.5,
		Email:    "neo@matrix.io",
	})

	expectStatus(t, rec, http.StatusCreated)
	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1), got.ID)
	require.Equal(t, 10.5, got.Class)
}

func TestHandler_CreateUser_BadJSON(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/users", "{not json")

	expectStatus(t, rec, http.StatusBadRequest)
	require.Equal(t, serr.ErrBadJSON.Error(), decodeError(t, rec))
}

// Ошибка валидации называет поле по json-тегу
func TestHandler_CreateUser_ValidationError(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/users", map[string]any{
		"nickname": "neo",
		"fullname": "Thomas",
		"email":    "not-an-email",
	})

	expectStatus(t, rec, http.StatusBadRequest)
	require.Contains(t, decodeError(t, rec), "email")
}

func TestHandler_CreateUser_Conflict(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.User{}, serr.ErrAlreadyExists)

	rec := env.do(http.MethodPost, "/users", api.CreateUserRequest{
		Nickname: "neo", Fullname: "T", Email: "neo@matrix.io",
	})

	expectStatus(t, rec, http.StatusConflict)
}

// Непредвиденная ошибка наружу уходит без подробностей
func TestHandler_CreateUser_Internal(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.User{}, serr.ErrUnexpectedError)

	rec := env.do(http.MethodPost, "/users", api.CreateUserRequest{
		Nickname: "neo", Fullname: "T", Email: "neo@matrix.io",
	})

	expectStatus(t, rec, http.StatusInternalServerError)
	require.Equal(t, serr.ErrInternal.Error(), decodeError(t, rec))
}

func TestHandler_SearchUsers_NumericQuery(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := int64(7)
	env.users.EXPECT().Search(gomock.Any(), "7", &id).Return([]models.User{{ID: 7}, {ID: 17}}, nil)

	rec := env.do(http.MethodGet, "/users?q=7", nil)

	expectStatus(t, rec, http.StatusOK)
	var got []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
}

// Без q — все пользователи, пустой список сериализуется как []
func TestHandler_SearchUsers_NoQuery(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.users.EXPECT().List(gomock.Any()).Return([]models.User{}, nil)

	rec := env.do(http.MethodGet, "/users", nil)

	expectStatus(t, rec, http.StatusOK)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestHandler_GetUser_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.users.EXPECT().GetByID(gomock.Any(), int64(5)).Return(models.User{}, serr.ErrNotFound)

	rec := env.do(http.MethodGet, "/users/5", nil)

	expectStatus(t, rec, http.StatusNotFound)
	require.Equal(t, "not found: user 5", decodeError(t, rec))
}

func TestHandler_GetUser_BadID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/users/abc", nil)

	expectStatus(t, rec, http.StatusBadRequest)
}

// Удаление пользователя каскадно чистит авторов
func TestHandler_DeleteUser_NoContent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.users.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil)
	env.projects.EXPECT().ListByAuthorForUpdate(gomock.Any(), int64(7)).Return([]models.Project{
		{ID: 1, AuthorsIDs: []int64{3, 7, 5}},
	}, nil)
	env.projects.EXPECT().SetAuthors(gomock.Any(), int64(1), []int64{3, 5}).Return(nil)

	rec := env.do(http.MethodDelete, "/users/7", nil)

	expectStatus(t, rec, http.StatusNoContent)
}

func TestHandler_DeleteAllUsers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.users.EXPECT().DeleteAll(gomock.Any()).Return(int64(2), nil)
	env.projects.EXPECT().ResetAllAuthors(gomock.Any()).Return(int64(1), nil)

	rec := env.do(http.MethodDelete, "/users", nil)

	expectStatus(t, rec, http.StatusOK)
	var got api.DeletedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(2), got.Deleted)
}
