package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-dvp-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-dvp-service/internal/logging"
)

// DepthChartRefresher force-fetches a team's depth chart into the read-through
// cache. *depthchart.Cache satisfies it.
type DepthChartRefresher interface {
	Refresh(ctx context.Context, team string) (*depthchart.Chart, error)
}

// ResultInvalidator drops cached DvP results for a team. *cache.Coordinator
// satisfies it.
type ResultInvalidator interface {
	InvalidateTeam(ctx context.Context, team string) error
}

// AdminHandler exposes admin-only endpoints guarded by a bearer token.
type AdminHandler struct {
	charts  DepthChartRefresher
	results ResultInvalidator
	token   string
	logger  *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token disables every endpoint.
func NewAdminHandler(charts DepthChartRefresher, results ResultInvalidator, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		charts:  charts,
		results: results,
		token:   token,
		logger:  logger,
	}
}

// RefreshDepthCharts re-fetches the depth chart for ?team=, or for every team
// when the parameter is absent.
func (h *AdminHandler) RefreshDepthCharts(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.charts == nil {
		writeError(w, r, http.StatusServiceUnavailable, "depth chart cache not configured", logger)
		return
	}
	targets, ok := h.teamsFor(w, r, logger)
	if !ok {
		return
	}

	refreshed := make(map[string]int, len(targets))
	failed := make(map[string]string)
	for _, team := range targets {
		chart, err := h.charts.Refresh(r.Context(), team)
		if err != nil {
			failed[team] = err.Error()
			logging.Warn(logger, "admin depth chart refresh failed",
				logging.FieldTeam, team,
				logging.FieldError, err,
			)
			continue
		}
		refreshed[team] = chart.Len()
	}

	status := http.StatusOK
	if len(refreshed) == 0 {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]any{
		"refreshed": refreshed,
		"failed":    failed,
	}, logger)
	logging.Info(logger, "admin depth charts refreshed",
		slog.Int("refreshed", len(refreshed)),
		slog.Int("failed", len(failed)),
	)
}

// InvalidateCache drops cached DvP results for ?team=, or for every team when
// the parameter is absent.
func (h *AdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.results == nil {
		writeError(w, r, http.StatusServiceUnavailable, "result cache not configured", logger)
		return
	}
	targets, ok := h.teamsFor(w, r, logger)
	if !ok {
		return
	}

	for _, team := range targets {
		if err := h.results.InvalidateTeam(r.Context(), team); err != nil {
			logging.Error(logger, "admin cache invalidation failed", err, logging.FieldTeam, team)
			writeError(w, r, http.StatusInternalServerError, "failed to invalidate cache", logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"invalidated": targets,
		"status":      "ok",
	}, logger)
	logging.Info(logger, "admin cache invalidated", slog.Int(logging.FieldCount, len(targets)))
}

func (h *AdminHandler) guard(w http.ResponseWriter, r *http.Request) bool {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return false
	}
	if !requestutil.TokenMatches(r, h.token) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return false
	}
	return true
}

func (h *AdminHandler) teamsFor(w http.ResponseWriter, r *http.Request, logger *slog.Logger) ([]string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("team"))
	if raw == "" {
		return teams.Abbreviations(), true
	}
	team, ok := teams.Lookup(raw)
	if !ok {
		logging.Warn(logger, "admin unknown team", logging.FieldTeam, raw)
		writeError(w, r, http.StatusBadRequest, "unknown team", logger)
		return nil, false
	}
	return []string{team.Abbreviation}, true
}
