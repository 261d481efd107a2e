// Package export renders session history to CSV, JSON and HTML files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/workshot/workshot/internal/database"
	"github.com/workshot/workshot/internal/models"
	"github.com/workshot/workshot/pkg/utils"
)

// Exporter writes timestamped export files into a directory.
type Exporter struct {
	repo *database.SessionRepository
	dir  string
}

// New creates an exporter. An empty dir resolves to
// ~/.config/workshot/exports at write time.
func New(repo *database.SessionRepository, dir string) *Exporter {
	return &Exporter{repo: repo, dir: dir}
}

// AppTotal is a per-app aggregate over the exported range.
type AppTotal struct {
	AppName        string `json:"app_name"`
	AppDisplay     string `json:"app_display"`
	TotalSeconds   int64  `json:"total_seconds"`
	TotalFormatted string `json:"total_formatted"`
	SessionCount   int    `json:"session_count"`
}

// MonitorTotal is a per-monitor aggregate over the exported range.
type MonitorTotal struct {
	Monitor        int    `json:"monitor"`
	TotalSeconds   int64  `json:"total_seconds"`
	TotalFormatted string `json:"total_formatted"`
	SessionCount   int    `json:"session_count"`
}

// Data is the assembled export payload shared by all renderers.
type Data struct {
	ExportedAt     time.Time         `json:"exported_at"`
	RangeLabel     string            `json:"date_range"`
	TotalSeconds   int64             `json:"total_seconds"`
	TotalFormatted string            `json:"total_formatted"`
	UniqueApps     int               `json:"unique_apps"`
	ByApp          []AppTotal        `json:"by_app"`
	ByMonitor      []MonitorTotal    `json:"by_monitor"`
	Sessions       []*models.Session `json:"sessions"`
}

// Build loads the sessions for [start, end) and aggregates them.
func (e *Exporter) Build(start, end time.Time) (*Data, error) {
	sessions, err := e.repo.SessionsBetween(start, end)
	if err != nil {
		return nil, err
	}
	return Assemble(sessions, rangeLabel(start, end)), nil
}

// Assemble aggregates raw session rows into an export payload.
func Assemble(sessions []*models.Session, label string) *Data {
	appTotals := make(map[string]*AppTotal)
	monitorTotals := make(map[int]*MonitorTotal)
	var totalSeconds int64

	for _, s := range sessions {
		totalSeconds += s.DurationSeconds

		at, ok := appTotals[s.AppName]
		if !ok {
			at = &AppTotal{AppName: s.AppName, AppDisplay: utils.SanitizeAppName(s.AppName)}
			appTotals[s.AppName] = at
		}
		at.TotalSeconds += s.DurationSeconds
		at.SessionCount++

		if s.Monitor > 0 && !s.IsIdle {
			mt, ok := monitorTotals[s.Monitor]
			if !ok {
				mt = &MonitorTotal{Monitor: s.Monitor}
				monitorTotals[s.Monitor] = mt
			}
			mt.TotalSeconds += s.DurationSeconds
			mt.SessionCount++
		}
	}

	byApp := make([]AppTotal, 0, len(appTotals))
	for _, at := range appTotals {
		at.TotalFormatted = utils.FormatDuration(at.TotalSeconds)
		byApp = append(byApp, *at)
	}
	sort.Slice(byApp, func(i, j int) bool { return byApp[i].TotalSeconds > byApp[j].TotalSeconds })

	byMonitor := make([]MonitorTotal, 0, len(monitorTotals))
	for _, mt := range monitorTotals {
		mt.TotalFormatted = utils.FormatDuration(mt.TotalSeconds)
		byMonitor = append(byMonitor, *mt)
	}
	sort.Slice(byMonitor, func(i, j int) bool { return byMonitor[i].Monitor < byMonitor[j].Monitor })

	return &Data{
		ExportedAt:     time.Now(),
		RangeLabel:     label,
		TotalSeconds:   totalSeconds,
		TotalFormatted: utils.FormatDuration(totalSeconds),
		UniqueApps:     len(appTotals),
		ByApp:          byApp,
		ByMonitor:      byMonitor,
		Sessions:       sessions,
	}
}

// Export builds the payload for [start, end) and writes it in the given
// format ("csv", "json" or "html"). Returns the created file path.
func (e *Exporter) Export(format string, start, end time.Time) (string, error) {
	data, err := e.Build(start, end)
	if err != nil {
		return "", err
	}

	path, err := e.filename("sessions", format)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := Write(f, format, data); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

// Write renders an export payload to w in the given format.
func Write(w io.Writer, format string, data *Data) error {
	switch format {
	case "csv":
		return WriteCSV(w, data)
	case "json":
		return WriteJSON(w, data)
	case "html":
		return WriteHTML(w, data)
	default:
		return fmt.Errorf("unsupported export format: %s (valid: csv, json, html)", format)
	}
}

// WriteCSV renders one row per session.
func WriteCSV(w io.Writer, data *Data) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "app_name", "app_display", "window_title", "monitor",
		"start_time", "end_time", "duration_seconds", "duration_formatted", "is_idle"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range data.Sessions {
		endTime := ""
		if s.EndTime != nil {
			endTime = s.EndTime.Format(time.RFC3339)
		}

		row := []string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.AppName,
			utils.SanitizeAppName(s.AppName),
			s.WindowTitle,
			strconv.Itoa(s.Monitor),
			s.StartTime.Format(time.RFC3339),
			endTime,
			strconv.FormatInt(s.DurationSeconds, 10),
			utils.FormatDuration(s.DurationSeconds),
			strconv.FormatBool(s.IsIdle),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON renders the full payload with aggregates.
func WriteJSON(w io.Writer, data *Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (e *Exporter) filename(prefix, extension string) (string, error) {
	dir := e.dir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve export directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".config", "workshot", "exports")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	stamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", prefix, stamp, extension)), nil
}

func rangeLabel(start, end time.Time) string {
	if start.IsZero() && end.IsZero() {
		return "all time"
	}
	return fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Add(-time.Second).Format("2006-01-02"))
}
