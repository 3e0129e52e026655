package tests

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.health.EXPECT().Ping(gomock.Any()).Return(nil)

	rec := env.do(http.MethodGet, "/healthz", nil)

	expectStatus(t, rec, http.StatusOK)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandler_Health_DBDown(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.health.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	rec := env.do(http.MethodGet, "/healthz", nil)

	expectStatus(t, rec, http.StatusServiceUnavailable)
}
