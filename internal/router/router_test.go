package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/querylab/internal/config"
	"github.com/deppfellow/querylab/internal/entity"
	"github.com/deppfellow/querylab/internal/handler"
	"github.com/deppfellow/querylab/internal/middleware"
	"github.com/deppfellow/querylab/internal/server"
	"github.com/rs/zerolog"
)

type prefixReports struct {
	handler.ReportReader
	prefix string
}

func (r *prefixReports) FindAllByUsernamePrefix(_ context.Context, prefix string) ([]entity.User, error) {
	r.prefix = prefix
	return []entity.User{{ID: 3, Username: "SergeyBrin"}, {ID: 2, Username: "SteveJobs"}}, nil
}

func setup(t *testing.T, reports handler.ReportReader) (http.Handler, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	s := &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Query:  config.QueryConfig{Style: config.QueryStyleORM},
		},
		Logger: &logger,
	}
	h := &handler.Handlers{
		Health: handler.NewHealthHandler(s),
		Report: handler.NewReportHandler(s, reports),
	}
	return NewRouter(s, h), &buf
}

func TestReportRoutesRegistered(t *testing.T) {
	s := &server.Server{Config: &config.Config{}, Logger: &zerolog.Logger{}}
	r := NewRouter(s, &handler.Handlers{
		Health: handler.NewHealthHandler(s),
		Report: handler.NewReportHandler(s, nil),
	})

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, path := range []string{
		"/status",
		"/api/v1/users",
		"/api/v1/users/search",
		"/api/v1/users/named/:name",
		"/api/v1/users/username-prefix/:prefix",
		"/api/v1/users/oldest",
		"/api/v1/users/language/:language",
		"/api/v1/users/above-average",
		"/api/v1/users/average-payment",
		"/api/v1/companies/:name/users",
		"/api/v1/companies/:name/payments",
		"/api/v1/companies/average-payments",
		"/api/v1/chats/user-counts",
		"/api/v1/chats/:id/companies",
		"/api/v1/payments/biggest",
	} {
		if !registered[http.MethodGet+" "+path] {
			t.Errorf("GET %s not registered", path)
		}
	}
}

func TestRequestThroughMiddleware(t *testing.T) {
	reports := &prefixReports{}
	r, logs := setup(t, reports)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/username-prefix/S", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if reports.prefix != "S" {
		t.Fatalf("prefix = %q, want S", reports.prefix)
	}
	if !strings.Contains(rec.Body.String(), "SergeyBrin") {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if rec.Header().Get(middleware.RequestIDHeader) != "req-7" {
		t.Fatalf("request id header = %q", rec.Header().Get(middleware.RequestIDHeader))
	}
	if !strings.Contains(logs.String(), `"request_id":"req-7"`) {
		t.Fatalf("request log misses request id: %s", logs.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	r, _ := setup(t, &prefixReports{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"NOT_FOUND"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestWriteMethodsRejected(t *testing.T) {
	r, _ := setup(t, &prefixReports{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
