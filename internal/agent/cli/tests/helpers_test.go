package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/agent/cli"
)

type request struct {
	Method string
	URI    string
	Body   map[string]any
}

// fakeServer отвечает status/resp и записывает все пришедшие запросы
type fakeServer struct {
	*httptest.Server
	Requests []request
}

func newFakeServer(t *testing.T, status int, resp any) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{Method: r.Method, URI: r.URL.RequestURI()}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req.Body); err != nil {
				t.Errorf("decode request body: %v", err)
			}
		}
		fs.Requests = append(fs.Requests, req)

		if resp == nil {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) last(t *testing.T) request {
	t.Helper()
	if len(fs.Requests) == 0 {
		t.Fatalf("server got no requests")
	}
	return fs.Requests[len(fs.Requests)-1]
}

// run выполняет команду с аргументами и возвращает stdout
func run(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func appFor(fs *fakeServer) *cli.App {
	return &cli.App{ServerURL: fs.URL}
}
