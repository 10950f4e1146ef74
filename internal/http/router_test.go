package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/nba-dvp-service/internal/dvp"
	"github.com/preston-bernstein/nba-dvp-service/internal/http/handlers"
)

type stubService struct{}

func (stubService) Aggregate(ctx context.Context, q dvp.Query) (dvp.Response, error) {
	return dvp.Response{}, nil
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	h := handlers.NewHandler(stubService{}, nil, nil)
	router := NewRouter(h, handlers.NewAdminHandler(nil, nil, "secret", nil))

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodGet, path: "/health", want: http.StatusOK},
		{method: http.MethodGet, path: "/ready", want: http.StatusOK},
		{method: http.MethodGet, path: "/dvp?team=MIL", want: http.StatusOK},
		{method: http.MethodGet, path: "/dvp", want: http.StatusBadRequest},
		{method: http.MethodPost, path: "/admin/depth-charts/refresh", want: http.StatusUnauthorized},
		{method: http.MethodPost, path: "/admin/cache/invalidate", want: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Fatalf("route %s %s expected status %d, got %d", tc.method, tc.path, tc.want, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := NewRouter(handlers.NewHandler(stubService{}, nil, nil), nil)

	for _, path := range []string{"/does-not-exist", "/admin/depth-charts/refresh"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", path, rr.Code)
		}
	}
}
