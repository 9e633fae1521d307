package dashboard

// indexHTML is a minimal page that drives the API and renders the stream.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>CRISPR guide design</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { padding: 2px 8px; border-bottom: 1px solid #ddd; text-align: left; }
#toasts div { margin: 4px 0; }
.error { color: #b00; }
.success { color: #070; }
</style>
</head>
<body>
<h1>CRISPR guide design</h1>
<p>
  <input id="gene" placeholder="Gene ID">
  <button id="fetch">Fetch sequence</button>
  <button id="design">Design guides</button>
  <button id="retrain">Retrain</button>
  <a href="/api/export">Export CSV</a>
</p>
<p>
  Region <input id="start" type="number" size="6"> - <input id="end" type="number" size="6">
  <button id="region">Set region</button>
  <span id="status"></span>
</p>
<div id="toasts"></div>
<div id="metrics"></div>
<table id="candidates"></table>
<script>
const $ = (id) => document.getElementById(id);
const post = (path, body) => fetch(path, {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body)})
  .then(r => r.ok ? null : r.json().then(e => toast({level: "error", message: e.detail})));
const toast = (t) => { const d = document.createElement("div"); d.className = t.level; d.textContent = t.message; $("toasts").prepend(d); };
const rate = (id, rating) => post("/api/feedback", {candidate_id: id, rating: rating});

function row(tag, cells) {
  const tr = document.createElement("tr");
  for (const text of cells) {
    const cell = document.createElement(tag);
    cell.textContent = text;
    tr.append(cell);
  }
  return tr;
}

function render(s) {
  $("status").textContent = s.loading ? "loading..." : (s.last_error || "");
  $("fetch").disabled = $("design").disabled = $("retrain").disabled = s.loading;
  if (document.activeElement !== $("start")) $("start").value = s.region_start;
  if (document.activeElement !== $("end")) $("end").value = s.region_end;
  const m = s.metrics;
  $("metrics").textContent = m ? "Candidates " + m.count + ", avg on-target " + m.avg_on_target.toFixed(3) +
    ", avg GC " + m.avg_gc_content.toFixed(1) + "%, top score " + m.top_score.toFixed(3) : "";
  const table = $("candidates");
  table.replaceChildren();
  const candidates = s.candidates || [];
  if (!candidates.length) return;
  table.append(row("th", ["#", "Guide", "PAM", "GC%", "On", "Off", "Composite", "Rate"]));
  for (const c of candidates) {
    const tr = row("td", [c.rank, c.guide_sequence, c.pam_sequence, c.gc_content.toFixed(1),
      c.on_target_score.toFixed(3), c.off_target_penalty.toFixed(3), c.composite_score.toFixed(3)]);
    const rating = document.createElement("td");
    for (const n of [1, 2, 3, 4, 5]) {
      const b = document.createElement("button");
      b.textContent = n;
      b.addEventListener("click", () => rate(c.candidate_id, n));
      rating.append(b);
    }
    tr.append(rating);
    table.append(tr);
  }
}

$("fetch").addEventListener("click", () => post("/api/sequence", {gene_id: $("gene").value}));
$("design").addEventListener("click", () => post("/api/design", {gene_id: $("gene").value}));
$("retrain").addEventListener("click", () => post("/api/retrain", {gene_id: $("gene").value}));
$("region").addEventListener("click", () => post("/api/region", {start: +$("start").value, end: +$("end").value}));

const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/api/ws");
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.type === "session") render(msg.session);
  if (msg.type === "toast") toast(msg.toast);
};
</script>
</body>
</html>
`
