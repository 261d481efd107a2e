package web

import "net/http"

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>WorkShot Dashboard</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background: #12141c; color: #e6e8ef; padding: 24px; }
h1 { font-size: 1.5rem; margin-bottom: 20px; }
h2 { font-size: 1rem; color: #8a8fa3; text-transform: uppercase; letter-spacing: 0.05em; margin: 24px 0 12px; }
.grid { display: grid; grid-template-columns: 2fr 1fr; gap: 24px; }
@media (max-width: 900px) { .grid { grid-template-columns: 1fr; } }
.card { background: #1b1e2b; border-radius: 12px; padding: 20px; }
#current-app { font-size: 1.5rem; font-weight: 600; }
#current-title { color: #8a8fa3; margin-top: 4px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
#current-elapsed { font-size: 2rem; font-variant-numeric: tabular-nums; margin-top: 12px; color: #5d8bf4; }
.idle #current-elapsed { color: #e8b04b; }
.row { display: flex; align-items: center; gap: 12px; padding: 8px 0; border-bottom: 1px solid #232636; }
.row:last-child { border-bottom: none; }
.row .name { width: 160px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
.row .bar { flex: 1; height: 8px; background: #232636; border-radius: 4px; overflow: hidden; }
.row .bar div { height: 100%; background: #5d8bf4; border-radius: 4px; }
.row .time { width: 90px; text-align: right; color: #aab; font-variant-numeric: tabular-nums; }
.session { display: flex; gap: 12px; padding: 6px 0; border-bottom: 1px solid #232636; font-size: 0.9rem; }
.session .at { width: 70px; color: #8a8fa3; }
.session .app { width: 140px; overflow: hidden; white-space: nowrap; text-overflow: ellipsis; }
.session .title { flex: 1; color: #8a8fa3; overflow: hidden; white-space: nowrap; text-overflow: ellipsis; }
.session .dur { width: 80px; text-align: right; font-variant-numeric: tabular-nums; }
.exports { margin-top: 16px; display: flex; gap: 8px; }
.exports a { color: #5d8bf4; text-decoration: none; border: 1px solid #2c3042; border-radius: 8px; padding: 6px 14px; font-size: 0.85rem; }
.exports a:hover { background: #232636; }
#total-today { font-size: 1.8rem; font-variant-numeric: tabular-nums; }
.muted { color: #8a8fa3; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>WorkShot</h1>
<div class="grid">
  <div>
    <div class="card" id="current-card">
      <h2 style="margin-top:0">Current activity</h2>
      <div id="current-app">&mdash;</div>
      <div id="current-title"></div>
      <div id="current-elapsed">0s</div>
    </div>

    <h2>Today by app</h2>
    <div class="card" id="today-list"><span class="muted">Loading&hellip;</span></div>

    <h2>Recent sessions</h2>
    <div class="card" id="session-list"><span class="muted">Loading&hellip;</span></div>
  </div>

  <div>
    <div class="card">
      <h2 style="margin-top:0">Total today</h2>
      <div id="total-today">00:00</div>
      <div class="muted" id="idle-today"></div>
    </div>

    <h2>Monitors</h2>
    <div class="card" id="monitor-list"><span class="muted">No data</span></div>

    <h2>Export</h2>
    <div class="card">
      <div class="exports">
        <a href="/api/export/csv">CSV</a>
        <a href="/api/export/json">JSON</a>
        <a href="/api/export/html" target="_blank">HTML</a>
      </div>
    </div>
  </div>
</div>

<script>
function esc(s) {
  const d = document.createElement('div');
  d.textContent = s == null ? '' : s;
  return d.innerHTML;
}

const source = new EventSource('/api/stream');
source.onmessage = (e) => {
  const a = JSON.parse(e.data);
  const card = document.getElementById('current-card');
  if (a.status === 'idle' && !a.app_name) {
    document.getElementById('current-app').textContent = 'No activity';
    document.getElementById('current-title').textContent = '';
    document.getElementById('current-elapsed').textContent = '';
    card.classList.add('idle');
    return;
  }
  card.classList.toggle('idle', !!a.is_idle);
  document.getElementById('current-app').textContent = a.app_display || a.app_name;
  document.getElementById('current-title').textContent = a.window_title;
  document.getElementById('current-elapsed').textContent = a.elapsed_formatted;
};

async function refresh() {
  const today = await (await fetch('/api/today')).json();
  document.getElementById('total-today').textContent = today.total_formatted;
  document.getElementById('idle-today').textContent =
    today.idle_seconds > 0 ? 'Idle: ' + today.idle_formatted : '';

  const max = Math.max(1, ...(today.summary || []).map(s => s.total_seconds));
  document.getElementById('today-list').innerHTML = (today.summary || []).map(s =>
    '<div class="row"><span class="name">' + esc(s.app_display || s.app_name) + '</span>' +
    '<div class="bar"><div style="width:' + (s.total_seconds / max * 100).toFixed(1) + '%"></div></div>' +
    '<span class="time">' + formatSeconds(s.total_seconds) + '</span></div>'
  ).join('') || '<span class="muted">No activity yet</span>';

  const sessions = await (await fetch('/api/sessions?limit=15')).json();
  document.getElementById('session-list').innerHTML = sessions.map(s =>
    '<div class="session"><span class="at">' + esc(s.start_formatted) + '</span>' +
    '<span class="app">' + esc(s.app_display) + '</span>' +
    '<span class="title">' + esc(s.window_title) + '</span>' +
    '<span class="dur">' + esc(s.duration_formatted) + '</span></div>'
  ).join('') || '<span class="muted">No sessions yet</span>';

  const monitors = await (await fetch('/api/monitors')).json();
  document.getElementById('monitor-list').innerHTML = (monitors || []).map(m =>
    '<div class="row"><span class="name">Monitor ' + m.monitor + '</span>' +
    '<span class="time">' + formatSeconds(m.total_seconds) + '</span></div>'
  ).join('') || '<span class="muted">No data</span>';
}

function formatSeconds(total) {
  const h = Math.floor(total / 3600), m = Math.floor((total % 3600) / 60);
  if (h > 0) return h + 'h ' + m + 'm';
  if (m > 0) return m + 'm';
  return total + 's';
}

refresh();
setInterval(refresh, 15000);
</script>
</body>
</html>
`
