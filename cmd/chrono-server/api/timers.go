package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chrono-timers/chrono-go/pkg/timer"
)

// List paging limits.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// Engine is the timer engine surface the API needs.
type Engine interface {
	Create(ctx context.Context) (*timer.Timer, error)
	Get(ctx context.Context, id string) (*timer.Timer, error)
	Start(ctx context.Context, id string) (*timer.Timer, error)
	Stop(ctx context.Context, id string) (*timer.Timer, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts timer.ListOptions) ([]*timer.Timer, error)
	Count(ctx context.Context) (map[timer.Status]int, error)
}

// TimersAPI handles timer endpoints.
type TimersAPI struct {
	engine Engine
	logger *slog.Logger
}

// NewTimersAPI creates a new timers API handler.
func NewTimersAPI(engine Engine, logger *slog.Logger) *TimersAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimersAPI{engine: engine, logger: logger}
}

// HandleCreate handles POST /api/timers.
func (a *TimersAPI) HandleCreate(w http.ResponseWriter, r *http.Request) {
	t, err := a.engine.Create(r.Context())
	if err != nil {
		a.writeTimerError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, t.Snapshot())
}

// HandleGet handles GET /api/timers/{id}.
func (a *TimersAPI) HandleGet(w http.ResponseWriter, r *http.Request) {
	a.handleTransition(w, r, a.engine.Get)
}

// HandleStart handles POST /api/timers/{id}/start.
func (a *TimersAPI) HandleStart(w http.ResponseWriter, r *http.Request) {
	a.handleTransition(w, r, a.engine.Start)
}

// HandleStop handles POST /api/timers/{id}/stop.
func (a *TimersAPI) HandleStop(w http.ResponseWriter, r *http.Request) {
	a.handleTransition(w, r, a.engine.Stop)
}

func (a *TimersAPI) handleTransition(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*timer.Timer, error)) {
	id, ok := timerID(w, r)
	if !ok {
		return
	}

	t, err := op(r.Context(), id)
	if err != nil {
		a.writeTimerError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, t.Snapshot())
}

// HandleDelete handles DELETE /api/timers/{id}.
func (a *TimersAPI) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := timerID(w, r)
	if !ok {
		return
	}

	if err := a.engine.Delete(r.Context(), id); err != nil {
		a.writeTimerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleList handles GET /api/timers?status=&limit=&offset=.
func (a *TimersAPI) HandleList(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}

	timers, err := a.engine.List(r.Context(), opts)
	if err != nil {
		a.writeTimerError(w, r, err)
		return
	}

	resp := TimerListResponse{
		Timers: make([]timer.Snapshot, 0, len(timers)),
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
	for _, t := range timers {
		resp.Timers = append(resp.Timers, t.Snapshot())
	}
	resp.Total = len(resp.Timers)

	writeJSONResponse(w, http.StatusOK, resp)
}

// Info returns timer counts for GET /api/info.
func (a *TimersAPI) Info(ctx context.Context, version string) (*InfoResponse, error) {
	counts, err := a.engine.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &InfoResponse{
		Version: version,
		Running: counts[timer.StatusRunning],
		Stopped: counts[timer.StatusStopped],
		Total:   counts[timer.StatusRunning] + counts[timer.StatusStopped],
	}, nil
}

// HandleInfo handles GET /api/info.
func (a *TimersAPI) HandleInfo(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := a.Info(r.Context(), version)
		if err != nil {
			a.writeTimerError(w, r, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, info)
	}
}

func parseListOptions(r *http.Request) (timer.ListOptions, error) {
	q := r.URL.Query()
	opts := timer.ListOptions{Limit: DefaultListLimit}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxListLimit {
			return opts, errors.New("limit must be between 1 and " + strconv.Itoa(MaxListLimit))
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("offset must be a non-negative integer")
		}
		opts.Offset = n
	}
	if v := q.Get("status"); v != "" {
		s, err := timer.ParseStatus(v)
		if err != nil {
			return opts, err
		}
		opts.Status = &s
	}
	return opts, nil
}

// timerID extracts and validates the {id} path value. On failure it writes
// a 400 response and returns false.
func timerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !timer.ValidID(id) {
		writeJSONError(w, http.StatusBadRequest, "Invalid timer ID", id)
		return "", false
	}
	return id, true
}

// writeTimerError maps engine errors to HTTP responses.
func (a *TimersAPI) writeTimerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, timer.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Timer not found", r.PathValue("id"))
	case errors.Is(err, timer.ErrInvalidState):
		a.logger.Error("Corrupt timer record", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Timer record is corrupt", err.Error())
	case errors.Is(err, timer.ErrStorage):
		writeJSONError(w, http.StatusServiceUnavailable, "Storage unavailable", err.Error())
	default:
		a.logger.Error("Unhandled API error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

// writeJSONResponse writes a JSON response with the given status code.
func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSONResponse(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// Compile-time check that the engine satisfies the API surface.
var _ Engine = (*timer.Engine)(nil)
