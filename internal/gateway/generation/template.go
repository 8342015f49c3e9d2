package generation

import (
	"html"
	"strings"
)

// templateEntry pairs a dispatch keyword set with a page template.
type templateEntry struct {
	keywords []string
	page     string
}

// templateTable is ordered; dispatch is first-match-wins over the keywords.
var templateTable = []templateEntry{
	{[]string{"calculator"}, calculatorPage},
	{[]string{"todo", "task"}, todoPage},
	{[]string{"timer"}, timerPage},
	{[]string{"weather"}, weatherPage},
	{[]string{"color"}, colorPage},
}

// GenerateTemplate deterministically renders a complete HTML document for
// prompt. It performs no I/O and cannot fail: it is the terminal fallback
// that makes the generation pipeline total. Prompts matching no keyword get
// a generic page echoing the prompt.
func GenerateTemplate(prompt, deploymentID string) string {
	lowered := strings.ToLower(prompt)
	for _, entry := range templateTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return render(entry.page, prompt, deploymentID)
			}
		}
	}
	return render(genericPage, prompt, deploymentID)
}

func render(page, prompt, deploymentID string) string {
	return strings.NewReplacer(
		"{{prompt}}", html.EscapeString(prompt),
		"{{id}}", html.EscapeString(deploymentID),
	).Replace(page)
}

const calculatorPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="deployment" content="{{id}}">
<title>Calculator</title>
<style>
body { font-family: system-ui, sans-serif; background: #1e1e2e; display: flex; justify-content: center; align-items: center; min-height: 100vh; margin: 0; }
.calc { background: #2a2a3e; border-radius: 12px; padding: 20px; box-shadow: 0 8px 24px rgba(0,0,0,.4); }
#display { width: 100%; height: 56px; font-size: 1.8rem; text-align: right; border: none; border-radius: 8px; margin-bottom: 12px; padding: 0 12px; box-sizing: border-box; background: #12121c; color: #eee; }
.keys { display: grid; grid-template-columns: repeat(4, 64px); gap: 8px; }
button { height: 56px; font-size: 1.2rem; border: none; border-radius: 8px; background: #3a3a52; color: #eee; cursor: pointer; }
button:hover { background: #4a4a66; }
button.op { background: #e8833a; }
</style>
</head>
<body>
<div class="calc">
<input id="display" readonly value="0">
<div class="keys">
<button onclick="clearAll()">C</button>
<button onclick="press('(')">(</button>
<button onclick="press(')')">)</button>
<button class="op" onclick="press('/')">&divide;</button>
<button onclick="press('7')">7</button>
<button onclick="press('8')">8</button>
<button onclick="press('9')">9</button>
<button class="op" onclick="press('*')">&times;</button>
<button onclick="press('4')">4</button>
<button onclick="press('5')">5</button>
<button onclick="press('6')">6</button>
<button class="op" onclick="press('-')">&minus;</button>
<button onclick="press('1')">1</button>
<button onclick="press('2')">2</button>
<button onclick="press('3')">3</button>
<button class="op" onclick="press('+')">+</button>
<button onclick="press('0')">0</button>
<button onclick="press('.')">.</button>
<button onclick="backspace()">&larr;</button>
<button class="op" onclick="calculate()">=</button>
</div>
</div>
<script>
var display = document.getElementById('display');
var expr = '';
function press(ch) { expr += ch; display.value = expr; }
function clearAll() { expr = ''; display.value = '0'; }
function backspace() { expr = expr.slice(0, -1); display.value = expr || '0'; }
function calculate() {
  try {
    if (!/^[0-9+\-*/(). ]+$/.test(expr)) throw new Error('bad input');
    var result = Function('"use strict"; return (' + expr + ')')();
    expr = String(result);
    display.value = expr;
  } catch (e) {
    display.value = 'Error';
    expr = '';
  }
}
</script>
</body>
</html>`

const todoPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="deployment" content="{{id}}">
<title>Todo List</title>
<style>
body { font-family: system-ui, sans-serif; background: #f4f4f8; max-width: 480px; margin: 48px auto; padding: 0 16px; }
h1 { color: #333; }
form { display: flex; gap: 8px; margin-bottom: 16px; }
input { flex: 1; padding: 10px; font-size: 1rem; border: 1px solid #ccc; border-radius: 6px; }
button { padding: 10px 16px; font-size: 1rem; border: none; border-radius: 6px; background: #4c6ef5; color: #fff; cursor: pointer; }
ul { list-style: none; padding: 0; }
li { background: #fff; padding: 10px 12px; border-radius: 6px; margin-bottom: 8px; display: flex; align-items: center; gap: 10px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
li.done span { text-decoration: line-through; color: #999; }
li span { flex: 1; }
li button { background: #e03131; padding: 6px 10px; }
</style>
</head>
<body>
<h1>Todo List</h1>
<form id="form">
<input id="input" placeholder="Add a task..." autocomplete="off">
<button type="submit">Add</button>
</form>
<ul id="list"></ul>
<script>
var form = document.getElementById('form');
var input = document.getElementById('input');
var list = document.getElementById('list');
form.addEventListener('submit', function (e) {
  e.preventDefault();
  var text = input.value.trim();
  if (!text) return;
  var li = document.createElement('li');
  var check = document.createElement('input');
  check.type = 'checkbox';
  check.addEventListener('change', function () { li.classList.toggle('done', check.checked); });
  var span = document.createElement('span');
  span.textContent = text;
  var del = document.createElement('button');
  del.textContent = 'Delete';
  del.addEventListener('click', function () { li.remove(); });
  li.appendChild(check);
  li.appendChild(span);
  li.appendChild(del);
  list.appendChild(li);
  input.value = '';
});
</script>
</body>
</html>`

const timerPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="deployment" content="{{id}}">
<title>Timer</title>
<style>
body { font-family: system-ui, sans-serif; background: #101418; color: #e8e8e8; display: flex; flex-direction: column; justify-content: center; align-items: center; min-height: 100vh; margin: 0; }
#clock { font-size: 5rem; font-variant-numeric: tabular-nums; letter-spacing: 2px; }
.controls { margin-top: 24px; display: flex; gap: 12px; }
button { padding: 12px 24px; font-size: 1.1rem; border: none; border-radius: 8px; cursor: pointer; background: #2b6cb0; color: #fff; }
button#reset { background: #4a5568; }
</style>
</head>
<body>
<div id="clock">00:00.0</div>
<div class="controls">
<button id="startstop">Start</button>
<button id="reset">Reset</button>
</div>
<script>
var elapsed = 0, running = false, last = 0, handle = null;
var clock = document.getElementById('clock');
var startstop = document.getElementById('startstop');
function fmt(ms) {
  var m = Math.floor(ms / 60000);
  var s = Math.floor((ms % 60000) / 1000);
  var t = Math.floor((ms % 1000) / 100);
  return (m < 10 ? '0' + m : m) + ':' + (s < 10 ? '0' + s : s) + '.' + t;
}
function tick() {
  var now = Date.now();
  elapsed += now - last;
  last = now;
  clock.textContent = fmt(elapsed);
}
startstop.addEventListener('click', function () {
  running = !running;
  startstop.textContent = running ? 'Stop' : 'Start';
  if (running) { last = Date.now(); handle = setInterval(tick, 100); }
  else { clearInterval(handle); }
});
document.getElementById('reset').addEventListener('click', function () {
  elapsed = 0;
  clock.textContent = fmt(0);
});
</script>
</body>
</html>`

const weatherPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="deployment" content="{{id}}">
<title>Weather</title>
<style>
body { font-family: system-ui, sans-serif; background: linear-gradient(160deg, #74b9ff, #0984e3); color: #fff; display: flex; justify-content: center; align-items: center; min-height: 100vh; margin: 0; }
.card { background: rgba(255,255,255,.15); border-radius: 16px; padding: 32px 40px; text-align: center; backdrop-filter: blur(6px); }
.temp { font-size: 4rem; font-weight: 700; }
.desc { font-size: 1.2rem; margin-top: 4px; }
.row { display: flex; gap: 24px; margin-top: 24px; justify-content: center; }
.row div { font-size: .95rem; }
select { margin-top: 20px; padding: 8px 12px; border-radius: 8px; border: none; font-size: 1rem; }
</style>
</head>
<body>
<div class="card">
<div class="temp" id="temp">21&deg;</div>
<div class="desc" id="desc">Partly cloudy</div>
<div class="row">
<div>Humidity<br><strong id="humidity">58%</strong></div>
<div>Wind<br><strong id="wind">12 km/h</strong></div>
</div>
<select id="city">
<option>Lisbon</option>
<option>Oslo</option>
<option>Tokyo</option>
<option>Sydney</option>
</select>
</div>
<script>
var samples = {
  Lisbon: { temp: 21, desc: 'Partly cloudy', humidity: '58%', wind: '12 km/h' },
  Oslo:   { temp: 6,  desc: 'Light rain',    humidity: '81%', wind: '19 km/h' },
  Tokyo:  { temp: 17, desc: 'Clear sky',     humidity: '47%', wind: '8 km/h' },
  Sydney: { temp: 24, desc: 'Sunny',         humidity: '52%', wind: '15 km/h' }
};
document.getElementById('city').addEventListener('change', function (e) {
  var s = samples[e.target.value];
  document.getElementById('temp').innerHTML = s.temp + '&deg;';
  document.getElementById('desc').textContent = s.desc;
  document.getElementById('humidity').textContent = s.humidity;
  document.getElementById('wind').textContent = s.wind;
});
</script>
</body>
</html>`

const colorPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="deployment" content="{{id}}">
<title>Color Picker</title>
<style>
body { font-family: system-ui, sans-serif; display: flex; flex-direction: column; justify-content: center; align-items: center; min-height: 100vh; margin: 0; transition: background .3s; }
.panel { background: rgba(255,255,255,.9); border-radius: 12px; padding: 24px 32px; text-align: center; box-shadow: 0 4px 16px rgba(0,0,0,.15); }
input[type=color] { width: 96px; height: 96px; border: none; cursor: pointer; background: none; }
code { display: block; margin-top: 12px; font-size: 1.3rem; }
button { margin-top: 16px; padding: 10px 20px; border: none; border-radius: 8px; background: #333; color: #fff; cursor: pointer; font-size: 1rem; }
</style>
</head>
<body>
<div class="panel">
<input type="color" id="picker" value="#4c6ef5">
<code id="hex">#4c6ef5</code>
<button id="random">Random color</button>
</div>
<script>
var picker = document.getElementById('picker');
var hex = document.getElementById('hex');
function apply(value) {
  document.body.style.background = value;
  hex.textContent = value;
  picker.value = value;
}
picker.addEventListener('input', function () { apply(picker.value); });
document.getElementById('random').addEventListener('click', function () {
  var value = '#' + Math.floor(Math.random() * 0xffffff).toString(16).padStart(6, '0');
  apply(value);
});
apply(picker.value);
</script>
</body>
</html>`

const genericPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="deployment" content="{{id}}">
<title>Generated Page</title>
<style>
body { font-family: system-ui, sans-serif; background: #fafafa; color: #222; max-width: 640px; margin: 64px auto; padding: 0 20px; line-height: 1.6; }
header { border-bottom: 2px solid #4c6ef5; padding-bottom: 12px; margin-bottom: 24px; }
h1 { margin: 0; font-size: 1.6rem; }
blockquote { background: #fff; border-left: 4px solid #4c6ef5; margin: 0; padding: 16px 20px; border-radius: 0 8px 8px 0; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
footer { margin-top: 40px; font-size: .85rem; color: #888; }
</style>
</head>
<body>
<header>
<h1>Your page is live</h1>
</header>
<p>This page was generated from the following request:</p>
<blockquote>{{prompt}}</blockquote>
<p>Edit the prompt and generate again to refine the result.</p>
<footer>Deployment {{id}}</footer>
</body>
</html>`
