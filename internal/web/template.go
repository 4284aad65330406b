package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/keegan/growroom/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Growroom Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.ok { color: green; }
.failed { color: red; font-weight: bold; }
form { display: inline; }
button { font-family: monospace; margin-right: 4px; }
</style>
</head>
<body>
<h1>Growroom Controller</h1>

<h2>Reading</h2>
<table>
{{if .Reading}}
<tr><th>Temperature</th><td>{{printf "%.1f" .Reading.TempC}} &deg;C ({{printf "%.1f" .Reading.TempF}} &deg;F)</td></tr>
<tr><th>Humidity</th><td>{{printf "%.1f" .Reading.Humidity}} %</td></tr>
<tr><th>Taken</th><td>{{.Reading.Time.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
{{else}}
<tr><th>Reading</th><td>none yet</td></tr>
{{end}}
<tr><th>Sensor</th><td class="{{if .SensorOK}}ok{{else}}failed{{end}}">{{if .SensorOK}}ok{{else}}FAILED ({{.Failures}} consecutive failures){{end}}</td></tr>
</table>

<h2>Relays</h2>
<table>
<tr><th>Humidifier</th><td class="{{if eq (stateOrUnknown (printf "%s" .Relay1)) "ON"}}on{{else if eq (stateOrUnknown (printf "%s" .Relay1)) "OFF"}}off{{else}}unknown{{end}}">{{stateOrUnknown (printf "%s" .Relay1)}}</td>
<td>
<form method="post" action="/relay"><input type="hidden" name="relay" value="relay1"><input type="hidden" name="state" value="on"><button>ON</button></form>
<form method="post" action="/relay"><input type="hidden" name="relay" value="relay1"><input type="hidden" name="state" value="off"><button>OFF</button></form>
</td></tr>
<tr><th>Heater/Fan</th><td class="{{if eq (stateOrUnknown (printf "%s" .Relay2)) "ON"}}on{{else if eq (stateOrUnknown (printf "%s" .Relay2)) "OFF"}}off{{else}}unknown{{end}}">{{stateOrUnknown (printf "%s" .Relay2)}}</td>
<td>
<form method="post" action="/relay"><input type="hidden" name="relay" value="relay2"><input type="hidden" name="state" value="on"><button>ON</button></form>
<form method="post" action="/relay"><input type="hidden" name="relay" value="relay2"><input type="hidden" name="state" value="off"><button>OFF</button></form>
</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Humidifier ON</th><td>{{.Counts.Relay1On}}</td></tr>
<tr><th>Humidifier OFF</th><td>{{.Counts.Relay1Off}}</td></tr>
<tr><th>Heater/Fan ON</th><td>{{.Counts.Relay2On}}</td></tr>
<tr><th>Heater/Fan OFF</th><td>{{.Counts.Relay2Off}}</td></tr>
<tr><th>Sensor failures</th><td>{{.Counts.SensorFailures}}</td></tr>
<tr><th>Overrides</th><td>{{.Counts.Overrides}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Sensor poll</th><td>{{.Config.SensorPollMs}}ms</td></tr>
<tr><th>Humidity band</th><td>{{.Config.HumidityLow}} &ndash; {{.Config.HumidityHigh}} %</td></tr>
<tr><th>Temp band</th><td>{{.Config.TempLow}} &ndash; {{.Config.TempHigh}} &deg;C</td></tr>
<tr><th>Heater mode</th><td>{{.Config.HeaterMode}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/status.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
