package export

import (
	"html/template"
	"io"
	"strconv"

	"github.com/workshot/workshot/internal/models"
	"github.com/workshot/workshot/pkg/utils"
)

// WriteHTML renders a standalone styled report page.
func WriteHTML(w io.Writer, data *Data) error {
	maxAppSeconds := int64(1)
	if len(data.ByApp) > 0 && data.ByApp[0].TotalSeconds > 0 {
		maxAppSeconds = data.ByApp[0].TotalSeconds
	}

	view := htmlView{
		Data: data,
		barWidth: func(seconds int64) float64 {
			return float64(seconds) / float64(maxAppSeconds) * 100.0
		},
	}

	return reportTemplate.Execute(w, view)
}

type htmlView struct {
	*Data
	barWidth func(int64) float64
}

func (v htmlView) BarWidth(seconds int64) float64 { return v.barWidth(seconds) }

func (v htmlView) FormatDuration(seconds int64) string { return utils.FormatDuration(seconds) }

func (v htmlView) Display(s *models.Session) string { return utils.SanitizeAppName(s.AppName) }

func (v htmlView) TitleOf(s *models.Session) string { return utils.Truncate(s.WindowTitle, 40) }

func (v htmlView) MonitorOf(s *models.Session) string {
	if s.IsIdle {
		return "-"
	}
	return "M" + strconv.Itoa(s.Monitor)
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>WorkShot Report - {{.RangeLabel}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background: #12141c; color: #e6e8ef; padding: 32px; }
h1 { font-size: 1.6rem; margin-bottom: 4px; }
.meta { color: #8a8fa3; margin-bottom: 24px; }
.stats { display: flex; gap: 16px; margin-bottom: 32px; flex-wrap: wrap; }
.stat { background: #1b1e2b; border-radius: 10px; padding: 16px 24px; }
.stat .value { font-size: 1.4rem; font-weight: 600; }
.stat .label { color: #8a8fa3; font-size: 0.8rem; text-transform: uppercase; }
h2 { font-size: 1.1rem; margin: 24px 0 12px; color: #aab; }
.app { display: flex; align-items: center; gap: 12px; padding: 8px 0; border-bottom: 1px solid #232636; }
.app-name { width: 200px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
.app-bar { flex: 1; height: 8px; background: #232636; border-radius: 4px; overflow: hidden; }
.app-bar div { height: 100%; background: #5d8bf4; border-radius: 4px; }
.app-time { width: 110px; text-align: right; color: #aab; font-variant-numeric: tabular-nums; }
.session { display: flex; gap: 16px; padding: 6px 0; border-bottom: 1px solid #1b1e2b; font-size: 0.9rem; }
.session .time { width: 60px; color: #8a8fa3; }
.session .app { width: 160px; border: none; padding: 0; }
.session .title { flex: 1; color: #aab; overflow: hidden; }
.session .dur { width: 90px; text-align: right; }
.session .mon { width: 36px; text-align: right; color: #8a8fa3; }
</style>
</head>
<body>
<h1>WorkShot Report</h1>
<div class="meta">{{.RangeLabel}} &middot; exported {{.ExportedAt.Format "2006-01-02 15:04:05"}}</div>

<div class="stats">
  <div class="stat"><div class="value">{{.TotalFormatted}}</div><div class="label">Total time</div></div>
  <div class="stat"><div class="value">{{len .Sessions}}</div><div class="label">Sessions</div></div>
  <div class="stat"><div class="value">{{.UniqueApps}}</div><div class="label">Apps</div></div>
</div>

<h2>By application</h2>
{{range .ByApp}}
<div class="app">
  <span class="app-name">{{.AppDisplay}}</span>
  <div class="app-bar"><div style="width: {{printf "%.1f" ($.BarWidth .TotalSeconds)}}%"></div></div>
  <span class="app-time">{{.TotalFormatted}}</span>
</div>
{{end}}

{{if .ByMonitor}}
<h2>By monitor</h2>
{{range .ByMonitor}}
<div class="app">
  <span class="app-name">Monitor {{.Monitor}}</span>
  <span class="app-time">{{.TotalFormatted}}</span>
</div>
{{end}}
{{end}}

<h2>Sessions</h2>
{{range .Sessions}}
<div class="session">
  <span class="time">{{.StartTime.Format "15:04"}}</span>
  <span class="app">{{$.Display .}}</span>
  <span class="title">{{$.TitleOf .}}</span>
  <span class="dur">{{$.FormatDuration .DurationSeconds}}</span>
  <span class="mon">{{$.MonitorOf .}}</span>
</div>
{{end}}
</body>
</html>
`))
