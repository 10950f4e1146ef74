package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/preston-bernstein/nba-dvp-service/internal/dvp"
	"github.com/preston-bernstein/nba-dvp-service/internal/logging"
	"github.com/preston-bernstein/nba-dvp-service/internal/warmer"
)

// DvPService answers aggregation queries. *dvp.Service satisfies it.
type DvPService interface {
	Aggregate(ctx context.Context, q dvp.Query) (dvp.Response, error)
}

// Handler wires HTTP routes to the DvP service.
type Handler struct {
	svc      DvPService
	logger   *slog.Logger
	statusFn func() warmer.Status
}

// NewHandler constructs a Handler. A nil statusFn reports ready unconditionally.
func NewHandler(svc DvPService, logger *slog.Logger, statusFn func() warmer.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch r.URL.Path {
	case "/health":
		h.Health(w, r)
	case "/ready":
		h.Ready(w, r)
	case "/dvp":
		h.DvP(w, r)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic based on the depth chart warmer.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// DvP serves GET /dvp?team=&season=&metric=&games=&split=&trace=&debug=&refresh=.
func (h *Handler) DvP(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.svc == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "dvp service not configured", logger)
		return
	}

	q, err := parseQuery(r)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}

	resp, err := h.svc.Aggregate(r.Context(), q)
	if err != nil {
		status := statusFor(err)
		if status == nethttp.StatusInternalServerError {
			logging.Error(logger, "dvp request failed", err, logging.FieldTeam, q.Team)
		}
		writeError(w, r, status, err.Error(), logger)
		return
	}

	w.Header().Set("X-Cache", string(resp.Cache))
	writeJSON(w, nethttp.StatusOK, resp.Result, logger)
}

func parseQuery(r *nethttp.Request) (dvp.Query, error) {
	values := r.URL.Query()
	q := dvp.Query{
		Team:   strings.TrimSpace(values.Get("team")),
		Season: strings.TrimSpace(values.Get("season")),
		Metric: strings.TrimSpace(values.Get("metric")),
	}
	if q.Team == "" {
		return dvp.Query{}, errors.New("team is required")
	}
	if raw := strings.TrimSpace(values.Get("games")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return dvp.Query{}, fmt.Errorf("invalid games %q", raw)
		}
		q.Games = n
	}

	flags := []struct {
		name string
		dest *bool
	}{
		{name: "split", dest: &q.Split},
		{name: "trace", dest: &q.Trace},
		{name: "debug", dest: &q.Debug},
		{name: "refresh", dest: &q.Refresh},
	}
	for _, f := range flags {
		v, err := parseFlag(values.Get(f.name))
		if err != nil {
			return dvp.Query{}, fmt.Errorf("invalid %s %q", f.name, values.Get(f.name))
		}
		*f.dest = v
	}
	return q, nil
}

// parseFlag treats an empty value as false and accepts strconv.ParseBool forms.
func parseFlag(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dvp.ErrUnknownTeam),
		errors.Is(err, dvp.ErrInvalidMetric),
		errors.Is(err, dvp.ErrInvalidWindow),
		errors.Is(err, dvp.ErrInvalidSeason):
		return nethttp.StatusBadRequest
	case errors.Is(err, dvp.ErrSnapshotUnavailable):
		return nethttp.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nethttp.StatusServiceUnavailable
	default:
		return nethttp.StatusInternalServerError
	}
}
