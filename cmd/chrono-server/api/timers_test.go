package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/chrono-timers/chrono-go/pkg/store/memory"
	"github.com/chrono-timers/chrono-go/pkg/timer"
	"github.com/chrono-timers/chrono-go/pkg/timer/mocks"
	"github.com/chrono-timers/chrono-go/pkg/timer/timertest"
)

const missingID = "7b0a4f9e-3c55-4a8e-9d0b-2f1c6e5a9b11"

func setupTimersTestEnv(t *testing.T) (*TimersAPI, *memory.Store, *timertest.Clock) {
	t.Helper()

	store := memory.New()
	clock := timertest.NewClock(timertest.Epoch)
	engine := timer.NewEngine(timer.EngineConfig{
		Store: store,
		Clock: clock,
	})
	return NewTimersAPI(engine, nil), store, clock
}

func doRequest(h http.HandlerFunc, method, target, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if id != "" {
		req.SetPathValue("id", id)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) timer.Snapshot {
	t.Helper()
	var s timer.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("Failed to parse response: %v (body %s)", err, w.Body.String())
	}
	return s
}

func createTimer(t *testing.T, api *TimersAPI) timer.Snapshot {
	t.Helper()
	w := doRequest(api.HandleCreate, http.MethodPost, "/api/timers", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	return decodeSnapshot(t, w)
}

func TestTimersAPIHandleCreate(t *testing.T) {
	api, _, _ := setupTimersTestEnv(t)

	w := doRequest(api.HandleCreate, http.MethodPost, "/api/timers", "")

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if raw["status"] != "stopped" {
		t.Errorf("Expected status 'stopped', got %v", raw["status"])
	}
	if raw["elapsed_seconds"] != float64(0) {
		t.Errorf("Expected elapsed_seconds 0, got %v", raw["elapsed_seconds"])
	}
	if v, ok := raw["start_time"]; !ok || v != nil {
		t.Errorf("Expected start_time null, got %v (present %v)", v, ok)
	}
	if !timer.ValidID(raw["id"].(string)) {
		t.Errorf("Expected a UUID id, got %v", raw["id"])
	}
}

func TestTimersAPILifecycle(t *testing.T) {
	api, _, clock := setupTimersTestEnv(t)
	created := createTimer(t, api)
	target := "/api/timers/" + created.ID

	w := doRequest(api.HandleStart, http.MethodPost, target+"/start", created.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	started := decodeSnapshot(t, w)
	if started.Status != timer.StatusRunning || started.StartTime == nil {
		t.Fatalf("Expected running timer with start time, got %+v", started)
	}
	if !started.StartTime.Equal(timertest.Epoch) {
		t.Errorf("Expected start time %v, got %v", timertest.Epoch, started.StartTime)
	}

	clock.Advance(5 * time.Second)

	got := decodeSnapshot(t, doRequest(api.HandleGet, http.MethodGet, target, created.ID))
	if got.ElapsedSeconds != 5 || got.Status != timer.StatusRunning {
		t.Errorf("Expected running with 5s, got %+v", got)
	}

	w = doRequest(api.HandleStop, http.MethodPost, target+"/stop", created.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	stopped := decodeSnapshot(t, w)
	if stopped.Status != timer.StatusStopped || stopped.ElapsedSeconds != 5 || stopped.StartTime != nil {
		t.Errorf("Expected stopped with 5s and no start time, got %+v", stopped)
	}

	// Repeated stop is a successful no-op.
	w = doRequest(api.HandleStop, http.MethodPost, target+"/stop", created.ID)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for repeated stop, got %d", w.Code)
	}
	if again := decodeSnapshot(t, w); again != stopped {
		t.Errorf("Expected unchanged timer, got %+v", again)
	}
}

func TestTimersAPIStartIsIdempotent(t *testing.T) {
	api, _, clock := setupTimersTestEnv(t)
	created := createTimer(t, api)

	first := decodeSnapshot(t, doRequest(api.HandleStart, http.MethodPost, "/", created.ID))
	clock.Advance(2 * time.Second)
	second := decodeSnapshot(t, doRequest(api.HandleStart, http.MethodPost, "/", created.ID))

	if !first.StartTime.Equal(*second.StartTime) {
		t.Errorf("Expected start time to be kept, got %v then %v", first.StartTime, second.StartTime)
	}
	if second.ElapsedSeconds != 2 {
		t.Errorf("Expected live elapsed 2, got %d", second.ElapsedSeconds)
	}
}

func TestTimersAPINotFound(t *testing.T) {
	api, _, _ := setupTimersTestEnv(t)

	handlers := map[string]http.HandlerFunc{
		"get":    api.HandleGet,
		"start":  api.HandleStart,
		"stop":   api.HandleStop,
		"delete": api.HandleDelete,
	}
	for name, h := range handlers {
		w := doRequest(h, http.MethodPost, "/api/timers/"+missingID, missingID)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: Expected status 404, got %d", name, w.Code)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: Failed to parse response: %v", name, err)
		}
		if resp.Error != "Timer not found" || resp.Details != missingID {
			t.Errorf("%s: unexpected error body %+v", name, resp)
		}
	}
}

func TestTimersAPIInvalidID(t *testing.T) {
	api, _, _ := setupTimersTestEnv(t)

	for _, id := range []string{"non-existent-id", "123", "7B0A4F9E-3C55-4A8E-9D0B-2F1C6E5A9B11x"} {
		w := doRequest(api.HandleGet, http.MethodGet, "/api/timers/x", id)
		if w.Code != http.StatusBadRequest {
			t.Errorf("id %q: Expected status 400, got %d", id, w.Code)
		}
	}
}

func TestTimersAPIHandleDelete(t *testing.T) {
	api, _, _ := setupTimersTestEnv(t)
	created := createTimer(t, api)

	w := doRequest(api.HandleDelete, http.MethodDelete, "/api/timers/"+created.ID, created.ID)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}

	w = doRequest(api.HandleGet, http.MethodGet, "/api/timers/"+created.ID, created.ID)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}
}

func TestTimersAPIHandleList(t *testing.T) {
	api, _, clock := setupTimersTestEnv(t)

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, createTimer(t, api).ID)
		clock.Advance(time.Second)
	}
	doRequest(api.HandleStart, http.MethodPost, "/", ids[0])

	w := doRequest(api.HandleList, http.MethodGet, "/api/timers", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp TimerListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Total != 3 || resp.Limit != DefaultListLimit {
		t.Errorf("Expected 3 timers with default limit, got total %d limit %d", resp.Total, resp.Limit)
	}
	if resp.Timers[0].ID != ids[2] {
		t.Errorf("Expected newest timer first, got %s", resp.Timers[0].ID)
	}

	w = doRequest(api.HandleList, http.MethodGet, "/api/timers?status=running", "")
	resp = TimerListResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Total != 1 || resp.Timers[0].ID != ids[0] {
		t.Errorf("Expected only the running timer, got %+v", resp.Timers)
	}

	w = doRequest(api.HandleList, http.MethodGet, "/api/timers?limit=1&offset=1", "")
	resp = TimerListResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Total != 1 || resp.Timers[0].ID != ids[1] {
		t.Errorf("Expected the middle timer, got %+v", resp.Timers)
	}
}

func TestTimersAPIHandleListEmpty(t *testing.T) {
	api, _, _ := setupTimersTestEnv(t)

	w := doRequest(api.HandleList, http.MethodGet, "/api/timers", "")
	if body := w.Body.String(); body != `{"timers":[],"total":0,"limit":100,"offset":0}`+"\n" {
		t.Errorf("Unexpected body %q", body)
	}
}

func TestTimersAPIHandleListBadQuery(t *testing.T) {
	api, _, _ := setupTimersTestEnv(t)

	for _, q := range []string{"limit=0", "limit=abc", "limit=5000", "offset=-1", "status=paused"} {
		w := doRequest(api.HandleList, http.MethodGet, "/api/timers?"+q, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: Expected status 400, got %d", q, w.Code)
		}
	}
}

func TestTimersAPICorruptRecord(t *testing.T) {
	api, store, _ := setupTimersTestEnv(t)
	store.Put(&timer.Timer{ID: missingID, Status: timer.StatusRunning})

	w := doRequest(api.HandleGet, http.MethodGet, "/api/timers/"+missingID, missingID)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestTimersAPIStorageFailure(t *testing.T) {
	store := mocks.NewMockStore(t)
	store.EXPECT().Update(mock.Anything, missingID, mock.Anything).Return(nil, errors.New("database is locked"))
	store.EXPECT().Insert(mock.Anything, mock.Anything).Return(errors.New("disk I/O error"))

	api := NewTimersAPI(timer.NewEngine(timer.EngineConfig{Store: store}), nil)

	w := doRequest(api.HandleStart, http.MethodPost, "/", missingID)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}

	w = doRequest(api.HandleCreate, http.MethodPost, "/api/timers", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestTimersAPIInfo(t *testing.T) {
	api, _, _ := setupTimersTestEnv(t)
	a := createTimer(t, api)
	createTimer(t, api)
	doRequest(api.HandleStart, http.MethodPost, "/", a.ID)

	w := doRequest(api.HandleInfo("1.0.0-test"), http.MethodGet, "/api/info", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp InfoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	want := InfoResponse{Version: "1.0.0-test", Running: 1, Stopped: 1, Total: 2}
	if resp != want {
		t.Errorf("Expected %+v, got %+v", want, resp)
	}
}
