package output

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/buemura/recon/pkg/types"
)

// HTMLFormatter renders the result as a self-contained HTML report.
type HTMLFormatter struct{}

func (f *HTMLFormatter) Format(w io.Writer, result *types.ScanResult) error {
	return htmlTpl.Execute(w, templateData{
		Result:  result,
		HTTP:    HTTPSummary(result),
		Robots:  RobotsSummary(result),
		Ports:   portRows(result),
		Scanned: result.Timestamp.Format(time.RFC3339),
	})
}

type templateData struct {
	Result  *types.ScanResult
	HTTP    string
	Robots  string
	Ports   []portRow
	Scanned string
}

var htmlTpl = template.Must(template.New("report").Parse(fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Recon Report: {{.Result.Host}}</title>
<style>%s</style>
</head>
<body>
<div class="container">
  {{with .Result}}
  <h1>{{.Host}} <span class="badge {{.Risk}}">{{.Risk}} risk</span></h1>

  <table class="summary">
    <tbody>
      <tr><th>Target</th><td>{{.Target}}</td></tr>
      <tr><th>IP</th><td>{{.IP}}</td></tr>
      {{if .ReverseDNS}}<tr><th>Reverse DNS</th><td>{{.ReverseDNS}}</td></tr>{{end}}
      <tr><th>Scheme</th><td>{{.Scheme}}</td></tr>
      <tr><th>HTTP</th><td>{{$.HTTP}}</td></tr>
      {{if .HTTPFingerprint}}
      <tr><th>Final URL</th><td>{{.FinalURL}}</td></tr>
      {{if .Title}}<tr><th>Title</th><td>{{.Title}}</td></tr>{{end}}
      {{end}}
      <tr><th>robots.txt</th><td>{{$.Robots}}</td></tr>
      <tr><th>Scanned at</th><td>{{$.Scanned}}</td></tr>
    </tbody>
  </table>

  {{if .HTTPFingerprint}}{{if .InterestingHeaders}}
  <h2>Headers</h2>
  <table>
    <thead><tr><th>Header</th><th>Value</th></tr></thead>
    <tbody>
      {{range $name, $value := .InterestingHeaders}}<tr><td>{{$name}}</td><td>{{$value}}</td></tr>
      {{end}}
    </tbody>
  </table>
  {{end}}{{end}}

  <h2>Ports</h2>
  <table>
    <thead><tr><th>Port</th><th>Service</th><th>Status</th></tr></thead>
    <tbody>
      {{range $.Ports}}<tr><td>{{.Port}}</td><td>{{.Service}}</td><td><span class="port {{.Status}}">{{.Status}}</span></td></tr>
      {{end}}
    </tbody>
  </table>

  {{if and .Robots .Robots.Preview}}
  <h2>robots.txt</h2>
  <pre>{{range .Robots.Preview}}{{.}}
{{end}}</pre>
  {{end}}

  <h2>Hints</h2>
  {{if .Hints}}
  <ul class="hints">
    {{range .Hints}}<li>{{.}}</li>
    {{end}}
  </ul>
  {{else}}
  <p class="no-hints">No hints.</p>
  {{end}}
  {{end}}
</div>
</body>
</html>`, cssStyles)))

const cssStyles = `
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,Helvetica,Arial,sans-serif;
     line-height:1.6;color:#1a1a2e;background:#f5f5fa;padding:2rem}
.container{max-width:960px;margin:0 auto}
h1{margin-bottom:1rem;font-size:1.8rem}
h2{margin:1.5rem 0 .75rem;font-size:1.3rem;border-bottom:2px solid #e0e0e0;padding-bottom:.3rem}
.badge{display:inline-block;padding:2px 10px;border-radius:12px;font-size:.8rem;font-weight:700;color:#fff;text-transform:uppercase;vertical-align:middle}
.badge.high{background:#e53935}
.badge.medium{background:#f9a825;color:#333}
.badge.low{background:#2e7d32}
.port.open{color:#e65100;font-weight:700}
.port.closed{color:#757575}
table{width:100%;border-collapse:collapse;margin-bottom:1rem}
th,td{text-align:left;padding:.5rem .75rem;border-bottom:1px solid #e0e0e0}
th{background:#eaeaea;font-weight:600}
.summary th{width:12rem}
tr:hover{background:#f0f0ff}
pre{background:#fff;border:1px solid #e0e0e0;border-radius:6px;padding:.75rem 1rem;overflow-x:auto;font-size:.85rem}
.hints li{margin-left:1.25rem}
.no-hints{color:#666;font-style:italic}
`
