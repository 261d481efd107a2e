package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshot/workshot/internal/models"
)

func sampleSessions() []*models.Session {
	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	end1 := start.Add(30 * time.Minute)
	end2 := start.Add(45 * time.Minute)
	end3 := start.Add(50 * time.Minute)

	return []*models.Session{
		{ID: 1, AppName: "firefox", WindowTitle: "docs", Monitor: 1,
			StartTime: start, EndTime: &end1, DurationSeconds: 1800},
		{ID: 2, AppName: "code", WindowTitle: "main.go", Monitor: 2,
			StartTime: end1, EndTime: &end2, DurationSeconds: 900},
		{ID: 3, AppName: "Idle", WindowTitle: "User is idle", Monitor: 0,
			StartTime: end2, EndTime: &end3, DurationSeconds: 300, IsIdle: true},
	}
}

func TestAssembleAggregates(t *testing.T) {
	data := Assemble(sampleSessions(), "2026-08-31 to 2026-08-31")

	assert.Equal(t, int64(3000), data.TotalSeconds)
	assert.Equal(t, 3, data.UniqueApps)

	// Sorted by total time descending.
	require.Len(t, data.ByApp, 3)
	assert.Equal(t, "firefox", data.ByApp[0].AppName)
	assert.Equal(t, int64(1800), data.ByApp[0].TotalSeconds)
	assert.Equal(t, "30m", data.ByApp[0].TotalFormatted)
	assert.Equal(t, "Firefox", data.ByApp[0].AppDisplay)

	// Idle sessions never count toward a monitor.
	require.Len(t, data.ByMonitor, 2)
	assert.Equal(t, 1, data.ByMonitor[0].Monitor)
	assert.Equal(t, 2, data.ByMonitor[1].Monitor)
	assert.Equal(t, int64(900), data.ByMonitor[1].TotalSeconds)
}

func TestAssembleEmpty(t *testing.T) {
	data := Assemble(nil, "all time")

	assert.Zero(t, data.TotalSeconds)
	assert.Zero(t, data.UniqueApps)
	assert.Empty(t, data.ByApp)
	assert.Empty(t, data.ByMonitor)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Assemble(sampleSessions(), "label")))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "is_idle", records[0][9])

	assert.Equal(t, "firefox", records[1][1])
	assert.Equal(t, "Firefox", records[1][2])
	assert.Equal(t, "1800", records[1][7])
	assert.Equal(t, "false", records[1][9])

	assert.Equal(t, "Idle", records[3][1])
	assert.Equal(t, "0", records[3][4])
	assert.Equal(t, "true", records[3][9])
}

func TestWriteCSVOpenSessionHasEmptyEndTime(t *testing.T) {
	sessions := []*models.Session{
		{ID: 7, AppName: "firefox", Monitor: 1, StartTime: time.Now()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Assemble(sessions, "label")))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "", records[1][6])
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Assemble(sampleSessions(), "label")))

	var decoded Data
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "label", decoded.RangeLabel)
	assert.Equal(t, int64(3000), decoded.TotalSeconds)
	assert.Len(t, decoded.Sessions, 3)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Assemble(sampleSessions(), "label")))

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Firefox")
	assert.Contains(t, html, "label")
}

func TestWriteHTMLEscapesTitles(t *testing.T) {
	end := time.Now()
	sessions := []*models.Session{
		{ID: 1, AppName: "firefox", WindowTitle: "<script>alert(1)</script>",
			Monitor: 1, StartTime: end.Add(-time.Minute), EndTime: &end, DurationSeconds: 60},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Assemble(sessions, "label")))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}

func TestWriteUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "xml", Assemble(nil, "label"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
