package server

const uiPageChromeCSS = `
    :root {
      --bg: #f4f6f9;
      --bg2: #dde7f2;
      --card: #ffffff;
      --ink: #22292f;
      --muted: #62707e;
      --ok: #1f8a4c;
      --bad: #b23a48;
      --accent: #2a6f97;
      --line: #c8d4e0;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: "Avenir Next", "Segoe UI", sans-serif;
      color: var(--ink);
      background: radial-gradient(circle at 20% 0%, var(--bg2), var(--bg));
    }
    main { max-width: 1100px; margin: 24px auto; padding: 0 16px; }
    .card {
      background: var(--card);
      border: 1px solid var(--line);
      border-radius: 12px;
      padding: 16px;
      margin-bottom: 16px;
      box-shadow: 0 8px 24px rgba(42,111,151,.08);
    }
    .brand { display: flex; align-items: center; gap: 12px; }
    .muted { color: var(--muted); font-size: 13px; }
    a { color: var(--accent); text-decoration: none; }
    a:hover { text-decoration: underline; }
    button {
      border: 1px solid var(--line);
      border-radius: 8px;
      padding: 8px 10px;
      font-size: 14px;
      line-height: 1.1;
      background: #ffffff;
      color: var(--accent);
    }
`
