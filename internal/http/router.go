package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/nba-dvp-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. Admin routes are only
// mounted when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/dvp", handler.DvP)
	if admin != nil {
		mux.HandleFunc("/admin/depth-charts/refresh", admin.RefreshDepthCharts)
		mux.HandleFunc("/admin/cache/invalidate", admin.InvalidateCache)
	}
	return mux
}
