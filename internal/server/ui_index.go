package server

const indexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>trag</title>
  <style>
` + uiPageChromeCSS + `
    h1 { margin: 0 0 4px; font-size: 28px; }
    h2 { margin: 0 0 12px; font-size: 18px; }
    p { margin: 0 0 10px; color: var(--muted); }
    .header { display: flex; justify-content: space-between; align-items: center; gap: 12px; }
    .columns { display: flex; gap: 16px; align-items: flex-start; }
    .commit-col { flex: 0 0 280px; max-height: 520px; overflow-y: auto; }
    .detail-col { flex: 1 1 auto; min-width: 0; }
    .commit-row {
      display: block;
      width: 100%;
      text-align: left;
      font-family: ui-monospace, monospace;
      font-size: 13px;
      border: none;
      border-bottom: 1px solid var(--line);
      border-radius: 0;
      background: transparent;
      padding: 8px 6px;
      cursor: pointer;
    }
    .commit-row:hover { background: var(--bg2); }
    .commit-row.selected { background: var(--bg2); font-weight: 600; }
    table { width: 100%; border-collapse: collapse; font-size: 13px; }
    th, td {
      border-bottom: 1px solid var(--line);
      text-align: left;
      padding: 8px 6px;
      overflow-wrap: anywhere;
    }
    td.num, th.num { text-align: right; font-variant-numeric: tabular-nums; }
    .pct-high { color: var(--ok); font-weight: 600; }
    .pct-low { color: var(--bad); font-weight: 600; }
    .error-banner {
      display: none;
      border: 1px solid var(--bad);
      border-radius: 8px;
      background: #fbeaec;
      color: var(--bad);
      padding: 10px 12px;
      margin-bottom: 16px;
    }
    .error-banner.visible { display: block; }
    #trendChart { width: 100%; height: 180px; display: block; }
    .chart-line { fill: none; stroke: var(--accent); stroke-width: 1.2; }
    .chart-grid { stroke: var(--line); stroke-width: 0.4; }
    .chart-label { font-size: 5px; fill: var(--muted); }
    .chart-point { fill: var(--accent); }
  </style>
</head>
<body>
  <main>
    <div class="card">
      <div class="header">
        <div class="brand">
          <div>
            <h1>trag</h1>
            <p>test262 conformance per engine commit</p>
          </div>
        </div>
      </div>
    </div>
    <div id="errorBanner" class="error-banner"></div>
    <div class="card">
      <h2>Pass-rate trend</h2>
      <svg id="trendChart" viewBox="0 0 200 60" preserveAspectRatio="none"></svg>
    </div>
    <div class="card">
      <div class="columns">
        <div class="commit-col">
          <h2>Commits</h2>
          <div id="commits"></div>
        </div>
        <div class="detail-col">
          <h2 id="detailTitle">Results by group</h2>
          <div id="detailStatus" class="muted"></div>
          <table>
            <thead>
              <tr><th>Group</th><th class="num">OK</th><th class="num">Failed</th><th class="num">% Passing</th></tr>
            </thead>
            <tbody id="groupsBody"></tbody>
          </table>
        </div>
      </div>
    </div>
  </main>
  <script src="ui/trag.js"></script>
  <script>
    document.addEventListener('DOMContentLoaded', boot);
  </script>
</body>
</html>
`
