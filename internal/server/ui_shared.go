package server

// uiSharedJS is the whole dashboard behavior: one explicit view-model plus a
// render() invoked after every state change. Data is fetched from relative
// paths so the same script works against the live server and an exported
// static snapshot.
const uiSharedJS = `function apiJSON(path, opts = {}) {
  const baseHeaders = { 'Content-Type': 'application/json' };
  const extraHeaders = (opts && opts.headers) || {};
  const request = {
    ...opts,
    cache: 'no-store',
    headers: { ...baseHeaders, ...extraHeaders },
  };
  return fetch(path, request)
    .then(async (res) => {
      if (!res.ok) {
        const text = await res.text();
        throw new Error(text || ('HTTP ' + res.status));
      }
      return res.json();
    });
}

function escapeHtml(s) {
  return (s || '').replace(/[&<>"']/g, c => ({ '&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;', "'": '&#39;' }[c]));
}

function shortCommit(id) {
  return String(id || '').slice(0, 8);
}

// Percentage of a group row; null when the group has no runs at all, which
// would otherwise divide zero by zero.
function groupPercent(group) {
  const ok = Number(group.n_ok) || 0;
  const fail = Number(group.n_fail) || 0;
  const total = ok + fail;
  if (total <= 0) return null;
  return 100 * ok / total;
}

// trendSeries derives the chart input from the commit index: x is the
// reverse-chronological index, y the success percentage clamped to [0,100].
function trendSeries(commits) {
  const x = [];
  const y = [];
  (commits || []).forEach((c, i) => {
    const total = Number(c.n_total) || 0;
    const ok = Number(c.n_success) || 0;
    x.push(i);
    y.push(total > 0 ? Math.max(0, Math.min(100, 100 * ok / total)) : 0);
  });
  return { x, y };
}

const model = {
  commits: [],
  trend: { x: [], y: [] },
  selectedCommit: null,
  detail: null,
  loadingDetail: false,
  error: '',
  detailEpoch: 0,
};

async function loadIndex() {
  try {
    const data = await apiJSON('commits.json');
    model.commits = data.commits || [];
    model.trend = trendSeries(model.commits);
    model.error = '';
  } catch (e) {
    model.error = 'Failed to load commit index: ' + e.message;
  }
  render();
}

function selectCommit(id) {
  model.selectedCommit = id;
  model.detail = null;
  model.loadingDetail = true;
  model.error = '';
  const epoch = ++model.detailEpoch;
  render();
  loadDetail(id, epoch);
}

async function loadDetail(id, epoch) {
  try {
    const data = await apiJSON(encodeURIComponent(id) + '.json');
    // A newer selection wins; drop this response if it is stale.
    if (epoch !== model.detailEpoch) return;
    model.detail = data.groups || [];
  } catch (e) {
    if (epoch !== model.detailEpoch) return;
    model.error = 'Failed to load results for ' + shortCommit(id) + ': ' + e.message;
  }
  model.loadingDetail = false;
  render();
}

function render() {
  renderError();
  renderCommitList();
  renderChart(model.trend);
  renderDetail();
}

function renderError() {
  const banner = document.getElementById('errorBanner');
  banner.textContent = model.error;
  banner.classList.toggle('visible', model.error !== '');
}

function renderCommitList() {
  const root = document.getElementById('commits');
  root.innerHTML = '';
  if (!model.commits.length) {
    root.innerHTML = '<p class="muted">No commits ingested yet.</p>';
    return;
  }
  model.commits.forEach((c) => {
    const row = document.createElement('button');
    row.className = 'commit-row' + (c.commit_id === model.selectedCommit ? ' selected' : '');
    row.textContent = shortCommit(c.commit_id) + ' / ' + c.n_success + '/' + c.n_total;
    row.onclick = () => selectCommit(c.commit_id);
    root.appendChild(row);
  });
}

function renderChart(series) {
  const svg = document.getElementById('trendChart');
  const W = 200, H = 60;
  const padLeft = 14, padRight = 4, padTop = 4, padBottom = 6;
  const plotW = W - padLeft - padRight;
  const plotH = H - padTop - padBottom;
  const ns = 'http://www.w3.org/2000/svg';

  while (svg.firstChild) svg.removeChild(svg.firstChild);

  const yFor = (pct) => padTop + plotH * (1 - pct / 100);
  [0, 50, 100].forEach((pct) => {
    const line = document.createElementNS(ns, 'line');
    line.setAttribute('class', 'chart-grid');
    line.setAttribute('x1', padLeft);
    line.setAttribute('x2', W - padRight);
    line.setAttribute('y1', yFor(pct));
    line.setAttribute('y2', yFor(pct));
    svg.appendChild(line);
    const label = document.createElementNS(ns, 'text');
    label.setAttribute('class', 'chart-label');
    label.setAttribute('x', 1);
    label.setAttribute('y', yFor(pct) + 1.8);
    label.textContent = String(pct);
    svg.appendChild(label);
  });

  const n = series.x.length;
  if (n === 0) return;

  const xFor = (i) => n === 1 ? padLeft + plotW / 2 : padLeft + plotW * (i / (n - 1));
  const points = series.x.map((xi, i) => xFor(i) + ',' + yFor(series.y[i])).join(' ');

  if (n > 1) {
    const line = document.createElementNS(ns, 'polyline');
    line.setAttribute('class', 'chart-line');
    line.setAttribute('points', points);
    svg.appendChild(line);
  }
  series.x.forEach((xi, i) => {
    const dot = document.createElementNS(ns, 'circle');
    dot.setAttribute('class', 'chart-point');
    dot.setAttribute('cx', xFor(i));
    dot.setAttribute('cy', yFor(series.y[i]));
    dot.setAttribute('r', 1.2);
    svg.appendChild(dot);
  });
}

function renderDetail() {
  const title = document.getElementById('detailTitle');
  const status = document.getElementById('detailStatus');
  const tbody = document.getElementById('groupsBody');
  tbody.innerHTML = '';

  if (!model.selectedCommit) {
    title.textContent = 'Results by group';
    status.textContent = 'Select a commit to see its breakdown.';
    return;
  }
  title.textContent = 'Results by group: ' + shortCommit(model.selectedCommit);

  if (model.loadingDetail) {
    status.textContent = 'Loading…';
    return;
  }
  if (!model.detail) {
    status.textContent = '';
    return;
  }
  if (!model.detail.length) {
    status.textContent = 'No results recorded for this commit.';
    return;
  }
  status.textContent = '';

  model.detail.forEach((g) => {
    const pct = groupPercent(g);
    const pctText = pct === null ? '—' : pct.toFixed(1) + '%';
    const pctClass = pct === null ? '' : (pct >= 50 ? 'pct-high' : 'pct-low');
    const tr = document.createElement('tr');
    tr.innerHTML =
      '<td><code>' + escapeHtml(g.path || '(top level)') + '</code></td>' +
      '<td class="num">' + (Number(g.n_ok) || 0) + '</td>' +
      '<td class="num">' + (Number(g.n_fail) || 0) + '</td>' +
      '<td class="num ' + pctClass + '">' + pctText + '</td>';
    tbody.appendChild(tr);
  });
}

function boot() {
  render();
  loadIndex();
}
`
