package webview

import (
	"net/http"
)

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(uiHTML))
}

const uiHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>Trading Bot Dashboard</title>
  <script src="https://cdn.plot.ly/plotly-2.27.0.min.js"></script>
  <style>
    body { font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Arial; margin: 0; background: #f5f6f8; color: #222; }
    body.dark-mode { background: #121212; color: #e0e0e0; }
    .top { display:flex; justify-content: space-between; align-items:center; padding: 12px 16px; }
    .grid { display:grid; grid-template-columns: repeat(auto-fit, minmax(320px, 1fr)); gap: 12px; padding: 0 16px 16px; }
    .card { background: #fff; border-radius: 8px; padding: 12px; }
    body.dark-mode .card { background: #1e1e1e; }
    .muted { color:#888; font-size: 12px; }
    table { width: 100%; border-collapse: collapse; font-size: 13px; }
    td { padding: 4px 6px; border-bottom: 1px solid rgba(128,128,128,.2); }
    .status-green, .data-profit, .status-executed { color: #16a34a; font-weight: 600; }
    .status-red, .data-loss { color: #dc2626; font-weight: 600; }
    .status-hold, .status-pending { color: #d97706; font-weight: 600; }
    .chart { min-height: 320px; }
  </style>
</head>
<body>
<div class="top">
  <h2 style="margin:0">Trading Bot Dashboard</h2>
  <div>
    <span class="muted">Last update: <span id="last-update-time">-</span></span>
    <button onclick="post('/api/refresh')">Refresh</button>
    <button id="dark-mode-toggle" onclick="post('/api/theme')">🌙 Dark Mode</button>
  </div>
</div>
<div class="grid">
  <div class="card">
    <h3>Overview</h3>
    <div>Total Signals: <b id="total-signals">-</b></div>
    <div>Total Trades: <b id="total-trades">-</b></div>
    <div>Open Positions: <b id="open-positions-count">-</b></div>
    <div>Last Signal: <b id="last-signal-time">-</b></div>
  </div>
  <div class="card">
    <h3>Live Market</h3>
    <div>Price: <b id="live-price">-</b> VWAP: <b id="live-vwap">-</b> RSI: <b id="live-rsi">-</b></div>
    <div>Signal: <b id="current-signal">-</b> Side: <b id="live-side">-</b> Size: <b id="live-size">-</b></div>
  </div>
  <div class="card">
    <h3>Performance</h3>
    <div>Total PnL: <b id="total-pnl">-</b></div>
    <div>Win Rate: <b id="win-rate">-</b></div>
    <div>Avg Win: <b id="avg-win">-</b> Avg Loss: <b id="avg-loss">-</b></div>
    <div>Risk/Reward: <b id="risk-reward">-</b></div>
  </div>
  <div class="card">
    <h3>Projection</h3>
    <div>Balance: <b id="current-balance">-</b> Trades: <b id="total-trades-breakdown">-</b>
      Losing: <b id="losing-trades">-</b> Best: <b id="risk-best">-</b></div>
    <div id="projection-chart" class="chart"></div>
  </div>
  <div class="card"><div id="candlestick-chart" class="chart"></div></div>
  <div class="card"><div id="cumulative-pnl-chart" class="chart"></div></div>
  <div class="card"><div id="signal-strength-chart" class="chart"></div></div>
  <div class="card"><h3>Recent Signals</h3><table><tbody id="recent-signals-table"></tbody></table></div>
  <div class="card"><h3>Recent RL Decisions</h3><table><tbody id="recent-decisions-table"></tbody></table></div>
  <div class="card"><h3>Recent Trades</h3><table><tbody id="recent-trades-table"></tbody></table></div>
</div>
<script>
const versions = {};

function post(path) {
  fetch(path, { method: 'POST' });
}

function apply(p) {
  const v = p.view || {};
  if (v.navigate) { window.location.href = v.navigate; return; }
  for (const [id, text] of Object.entries(v.text || {})) {
    const el = document.getElementById(id);
    if (el) el.textContent = text;
  }
  for (const [id, cls] of Object.entries(v.class || {})) {
    if (id === 'body') { document.body.className = cls; continue; }
    const el = document.getElementById(id);
    if (el) el.className = cls;
  }
  for (const [id, rows] of Object.entries(v.tables || {})) {
    const tbody = document.getElementById(id);
    if (!tbody) continue;
    tbody.innerHTML = '';
    for (const row of rows) {
      const tr = document.createElement('tr');
      for (const cell of row) {
        const td = document.createElement('td');
        td.textContent = cell.text;
        if (cell.class) td.className = cell.class;
        if (cell.colspan) td.colSpan = cell.colspan;
        tr.appendChild(td);
      }
      tbody.appendChild(tr);
    }
  }
  for (const f of p.figures || []) {
    if (versions[f.id] === f.version) continue;
    versions[f.id] = f.version;
    Plotly.react(f.id, f.data, f.layout, f.config);
  }
}

function connect() {
  const proto = location.protocol === 'https:' ? 'wss' : 'ws';
  const ws = new WebSocket(proto + '://' + location.host + '/ws');
  ws.onmessage = (ev) => apply(JSON.parse(ev.data));
  ws.onclose = () => setTimeout(connect, 2000);
}

fetch('/api/view').then(r => r.json()).then(apply).finally(connect);
</script>
</body>
</html>
`
