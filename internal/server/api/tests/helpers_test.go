package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/api"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/service"
	repoMocks "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/service/mocks"
)

type testEnv struct {
	router   chi.Router
	users    *repoMocks.MockUsersRepo
	projects *repoMocks.MockProjectsRepo
	health   *repoMocks.MockHealthRepo
}

// helper: Handler на моках репозиториев, маршруты как в боевом роутере
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	tx := repoMocks.NewMockTransactor(ctrl)
	tx.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()

	env := &testEnv{
		users:    repoMocks.NewMockUsersRepo(ctrl),
		projects: repoMocks.NewMockProjectsRepo(ctrl),
		health:   repoMocks.NewMockHealthRepo(ctrl),
	}

	svc := service.NewServices(service.Repositories{
		Tx:       tx,
		Users:    env.users,
		Projects: env.projects,
		Health:   env.health,
	}, nil)
	h := api.NewHandler(svc, nil)

	r := chi.NewRouter()
	r.Get("/healthz", h.Health)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.SearchUsers)
		r.Delete("/", h.DeleteAllUsers)
		r.Get("/{id}", h.GetUser)
		r.Delete("/{id}", h.DeleteUser)
	})
	r.Route("/projects", func(r chi.Router) {
		r.Post("/", h.CreateProject)
		r.Get("/", h.ListProjects)
		r.Delete("/", h.DeleteAllProjects)
		r.Get("/{id}", h.GetProject)
		r.Put("/{id}", h.UpdateProject)
		r.Patch("/{id}", h.UpdateProject)
		r.Delete("/{id}", h.DeleteProject)
	})
	r.Get("/search", h.SearchProjects)
	env.router = r

	return env
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(api.ContentType, api.JsonContentType)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not json: %q", rec.Body.String())
	}
	return resp.Error
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
