package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshot/workshot/internal/config"
	"github.com/workshot/workshot/internal/database"
	"github.com/workshot/workshot/internal/monitor"
)

// fakeSource serves a scripted activity to the handler.
type fakeSource struct {
	activity *monitor.Activity
}

func (f *fakeSource) CurrentActivity() *monitor.Activity { return f.activity }

func testHandler(t *testing.T, source ActivitySource) (*Handler, *database.SessionRepository) {
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })

	repo := database.NewSessionRepository(db)
	return NewHandler(config.Default(), repo, source), repo
}

func serve(h *Handler, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.SetupRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func seedSession(t *testing.T, repo *database.SessionRepository, app string, isIdle bool, start time.Time, dur time.Duration) {
	monitorID := 1
	if isIdle {
		monitorID = 0
	}
	id, err := repo.StartSession(app, "title", monitorID, isIdle, start)
	require.NoError(t, err)
	require.NoError(t, repo.EndSession(id, start.Add(dur)))
}

func TestCurrentNoActivity(t *testing.T) {
	h, _ := testHandler(t, &fakeSource{})

	rec := serve(h, http.MethodGet, "/api/current")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeMap(t, rec)
	assert.Equal(t, "idle", body["status"])
}

func TestCurrentWithActivity(t *testing.T) {
	source := &fakeSource{activity: &monitor.Activity{
		AppName:        "firefox",
		WindowTitle:    "docs",
		Monitor:        2,
		StartTime:      time.Now().Add(-90 * time.Second),
		ElapsedSeconds: 90,
	}}
	h, _ := testHandler(t, source)

	body := decodeMap(t, serve(h, http.MethodGet, "/api/current"))
	assert.Equal(t, "firefox", body["app_name"])
	assert.Equal(t, "Firefox", body["app_display"])
	assert.Equal(t, float64(2), body["monitor"])
	assert.Equal(t, "1m 30s", body["elapsed_formatted"])
	assert.NotContains(t, body, "status")
}

func TestCurrentIdleActivity(t *testing.T) {
	source := &fakeSource{activity: &monitor.Activity{
		AppName: "Idle",
		IsIdle:  true,
	}}
	h, _ := testHandler(t, source)

	body := decodeMap(t, serve(h, http.MethodGet, "/api/current"))
	assert.Equal(t, "idle", body["status"])
	assert.Equal(t, true, body["is_idle"])
}

func TestCurrentMethodNotAllowed(t *testing.T) {
	h, _ := testHandler(t, &fakeSource{})
	rec := serve(h, http.MethodPost, "/api/current")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestToday(t *testing.T) {
	h, repo := testHandler(t, &fakeSource{})

	base := todayStart().Add(time.Minute)
	seedSession(t, repo, "firefox", false, base, 30*time.Minute)
	seedSession(t, repo, "Idle", true, base.Add(30*time.Minute), 5*time.Minute)

	body := decodeMap(t, serve(h, http.MethodGet, "/api/today"))
	assert.Equal(t, float64(1800), body["total_seconds"])
	assert.Equal(t, float64(300), body["idle_seconds"])
	assert.Equal(t, "5m", body["idle_formatted"])

	summary, ok := body["summary"].([]interface{})
	require.True(t, ok)
	assert.Len(t, summary, 1)
}

func TestMonitors(t *testing.T) {
	h, repo := testHandler(t, &fakeSource{})
	seedSession(t, repo, "firefox", false, todayStart().Add(time.Minute), 10*time.Minute)

	rec := serve(h, http.MethodGet, "/api/monitors")
	require.Equal(t, http.StatusOK, rec.Code)

	var breakdown []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &breakdown))
	require.Len(t, breakdown, 1)
	assert.Equal(t, float64(1), breakdown[0]["monitor"])
}

func TestSessionsLimit(t *testing.T) {
	h, repo := testHandler(t, &fakeSource{})

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedSession(t, repo, "app", false, base.Add(time.Duration(i)*time.Minute), 30*time.Second)
	}

	rec := serve(h, http.MethodGet, "/api/sessions?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	assert.Len(t, sessions, 3)
}

func TestSummaryInvalidPeriod(t *testing.T) {
	h, _ := testHandler(t, &fakeSource{})
	rec := serve(h, http.MethodGet, "/api/summary?period=fortnight")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSV(t *testing.T) {
	h, repo := testHandler(t, &fakeSource{})
	seedSession(t, repo, "firefox", false, todayStart().Add(time.Minute), 10*time.Minute)

	rec := serve(h, http.MethodGet, "/api/export/csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "firefox")
}

func TestExportHTML(t *testing.T) {
	h, _ := testHandler(t, &fakeSource{})

	rec := serve(h, http.MethodGet, "/api/export/html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<!DOCTYPE html>"))
}

func TestExportUnsupportedFormat(t *testing.T) {
	h, _ := testHandler(t, &fakeSource{})
	rec := serve(h, http.MethodGet, "/api/export/xml")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportBadDateRange(t *testing.T) {
	h, _ := testHandler(t, &fakeSource{})

	rec := serve(h, http.MethodGet, "/api/export/csv?start=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodGet, "/api/export/csv?start=2026-08-10&end=2026-08-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseDateRange(t *testing.T) {
	start, end, err := parseDateRange("2026-08-01", "2026-08-03")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local), start)
	// Inclusive end: the range covers all of the end day.
	assert.Equal(t, time.Date(2026, 8, 4, 0, 0, 0, 0, time.Local), end)
}

func TestHealth(t *testing.T) {
	h, _ := testHandler(t, &fakeSource{})

	body := decodeMap(t, serve(h, http.MethodGet, "/health"))
	assert.Equal(t, "healthy", body["status"])
}

func TestIndexServesDashboard(t *testing.T) {
	h, _ := testHandler(t, &fakeSource{})

	rec := serve(h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "EventSource")
}

func TestStreamEmitsEvents(t *testing.T) {
	h, _ := testHandler(t, &fakeSource{activity: &monitor.Activity{AppName: "firefox"}})

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()

	rec := httptest.NewRecorder()
	h.handleStream(rec, req.WithContext(ctx))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "data: ")
	assert.Contains(t, rec.Body.String(), "firefox")
}
