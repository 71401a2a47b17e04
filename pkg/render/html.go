package render

import (
	"html/template"
	"strings"

	"github.com/dkoosis/bugreg/pkg/table"
)

var htmlPage = template.Must(template.New("page").Funcs(template.FuncMap{
	"kind": func(b table.Block) string { return string(b.Kind()) },
}).Parse(`<html><head>
<style>
body{font-family:sans-serif;}
.values {border-collapse:collapse;font-size:80%;}
.values td, th {padding:0.5em 1em; border:1px solid #ccc; text-align:left;}
.bad {background-color:#ee0000;}
.good {background-color:#8fd18f;}
.unknown {background-color:#9fc5f8;}
</style>
</head><body>
{{- range .}}
{{- if eq (kind .) "table"}}
{{- if .Section}}
<h2>{{.Section}}</h2>
{{- end}}
<table class="values">
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr{{if ne .Tone "default"}} class="{{.Tone}}"{{end}}>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
{{- else if eq (kind .) "summary"}}
<p><b>{{.Label}}:</b>{{range $i, $it := .Items}}{{if $i}},{{end}} {{$it.Value}} {{$it.Label}}{{end}}</p>
{{- else if eq (kind .) "detail"}}
<h2>{{.Title}}</h2>
<dl>
{{- range .Fields}}{{if .Values}}
<dt>{{.Name}}</dt>{{range .Values}}<dd>{{.}}</dd>{{end}}
{{- end}}{{end}}
</dl>
{{- end}}
{{- end}}
</body></html>
`))

// HTML renders blocks as a standalone HTML page.
type HTML struct{}

// NewHTML creates an HTML renderer.
func NewHTML() *HTML {
	return &HTML{}
}

// Render formats all blocks as one HTML document. Cell text is escaped.
func (h *HTML) Render(blocks []table.Block) string {
	var sb strings.Builder
	if err := htmlPage.Execute(&sb, blocks); err != nil {
		return "<html><body><p>render error: " + template.HTMLEscapeString(err.Error()) + "</p></body></html>\n"
	}
	return sb.String()
}
