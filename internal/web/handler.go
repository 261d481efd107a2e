package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/workshot/workshot/internal/config"
	"github.com/workshot/workshot/internal/database"
	"github.com/workshot/workshot/internal/export"
	"github.com/workshot/workshot/internal/monitor"
	"github.com/workshot/workshot/internal/reporter"
	"github.com/workshot/workshot/pkg/utils"
)

// ActivitySource is the read-only view of the monitor the dashboard
// consumes. It never mutates tracking state.
type ActivitySource interface {
	CurrentActivity() *monitor.Activity
}

type Handler struct {
	config   *config.Config
	repo     *database.SessionRepository
	reporter *reporter.Reporter
	source   ActivitySource
}

func NewHandler(cfg *config.Config, repo *database.SessionRepository, source ActivitySource) *Handler {
	return &Handler{
		config:   cfg,
		repo:     repo,
		reporter: reporter.New(repo),
		source:   source,
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/current", h.handleCurrent)
	mux.HandleFunc("/api/stream", h.handleStream)
	mux.HandleFunc("/api/today", h.handleToday)
	mux.HandleFunc("/api/monitors", h.handleMonitors)
	mux.HandleFunc("/api/sessions", h.handleSessions)
	mux.HandleFunc("/api/summary", h.handleSummary)
	mux.HandleFunc("/api/export/", h.handleExport)

	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/", h.handleIndex)
}

// currentPayload shapes the current-activity response. A nil activity
// renders as {"status": "idle"}.
func (h *Handler) currentPayload() map[string]interface{} {
	activity := h.source.CurrentActivity()
	if activity == nil {
		return map[string]interface{}{"status": "idle"}
	}

	payload := map[string]interface{}{
		"app_name":          activity.AppName,
		"app_display":       utils.SanitizeAppName(activity.AppName),
		"window_title":      activity.WindowTitle,
		"monitor":           activity.Monitor,
		"start_time":        activity.StartTime.Format(time.RFC3339),
		"elapsed_seconds":   activity.ElapsedSeconds,
		"elapsed_formatted": utils.FormatDuration(activity.ElapsedSeconds),
		"is_idle":           activity.IsIdle,
	}

	if activity.IsIdle {
		payload["status"] = "idle"
	}

	return payload
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, h.currentPayload())
}

// handleStream pushes the current activity once per poll interval as
// Server-Sent Events until the client disconnects.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.config.Tracker.PollInterval)
	defer ticker.Stop()

	for {
		data, err := json.Marshal(h.currentPayload())
		if err != nil {
			log.Warn().Err(err).Msg("failed to marshal SSE payload")
			return
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	startOfDay := todayStart()

	summaries, err := h.repo.AppSummarySince(startOfDay, false)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get summary: %v", err), http.StatusInternalServerError)
		return
	}

	var totalSeconds int64
	for i := range summaries {
		summaries[i].AppDisplay = utils.SanitizeAppName(summaries[i].AppName)
		totalSeconds += summaries[i].TotalSeconds
	}

	idleSeconds, err := h.repo.IdleSecondsSince(startOfDay)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get idle time: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{
		"summary":         summaries,
		"total_seconds":   totalSeconds,
		"total_formatted": utils.FormatDurationCompact(totalSeconds),
		"idle_seconds":    idleSeconds,
		"idle_formatted":  utils.FormatDuration(idleSeconds),
	})
}

func (h *Handler) handleMonitors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	breakdown, err := h.repo.MonitorBreakdownSince(todayStart())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get monitor breakdown: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, breakdown)
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 500 {
			limit = l
		}
	}

	sessions, err := h.repo.RecentSessions(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch sessions: %v", err), http.StatusInternalServerError)
		return
	}

	type sessionView struct {
		ID                uint       `json:"id"`
		AppName           string     `json:"app_name"`
		AppDisplay        string     `json:"app_display"`
		WindowTitle       string     `json:"window_title"`
		Monitor           int        `json:"monitor"`
		StartTime         time.Time  `json:"start_time"`
		StartFormatted    string     `json:"start_formatted"`
		EndTime           *time.Time `json:"end_time"`
		DurationSeconds   int64      `json:"duration_seconds"`
		DurationFormatted string     `json:"duration_formatted"`
		IsIdle            bool       `json:"is_idle"`
	}

	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, sessionView{
			ID:                s.ID,
			AppName:           s.AppName,
			AppDisplay:        utils.SanitizeAppName(s.AppName),
			WindowTitle:       s.WindowTitle,
			Monitor:           s.Monitor,
			StartTime:         s.StartTime,
			StartFormatted:    s.StartTime.Format("15:04:05"),
			EndTime:           s.EndTime,
			DurationSeconds:   s.DurationSeconds,
			DurationFormatted: utils.FormatDuration(s.DurationSeconds),
			IsIdle:            s.IsIdle,
		})
	}

	respondJSON(w, views)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, report)
}

// handleExport streams an export in the requested format. Optional start
// and end query parameters (YYYY-MM-DD, inclusive) bound the range.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := strings.TrimPrefix(r.URL.Path, "/api/export/")
	if format != "csv" && format != "json" && format != "html" {
		http.Error(w, fmt.Sprintf("Unsupported export format: %s", format), http.StatusBadRequest)
		return
	}

	start, end, err := parseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessions, err := h.repo.SessionsBetween(start, end)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch sessions: %v", err), http.StatusInternalServerError)
		return
	}

	label := fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Add(-time.Second).Format("2006-01-02"))
	data := export.Assemble(sessions, label)

	filename := fmt.Sprintf("workshot_%s.%s", time.Now().Format("2006-01-02_15-04-05"), format)
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}

	if err := export.Write(w, format, data); err != nil {
		log.Warn().Err(err).Str("format", format).Msg("export render failed")
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode JSON response")
	}
}

func todayStart() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// parseDateRange interprets inclusive YYYY-MM-DD bounds. Defaults: start
// of today through now; an end without time extends to the end of that day.
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start := todayStart()
	end := start.Add(24 * time.Hour)

	if startStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %s", startStr)
		}
		start = parsed
		end = start.Add(24 * time.Hour)
	}

	if endStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %s", endStr)
		}
		end = parsed.Add(24 * time.Hour)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date precedes start date")
	}

	return start, end, nil
}
