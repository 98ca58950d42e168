package render

import (
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/mrzor/stack-tracer/internal/stack"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>stack-tracer report</title>
<style>
body { font-family: monospace; }
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { border: 1px solid #999; padding: 2px 8px; text-align: left; }
caption { text-align: left; font-weight: bold; padding: 4px 0; }
.dup { color: #666; margin-bottom: 1em; }
</style>
</head>
<body>
<h1>Stack dumps</h1>
{{range .Dumps}}{{if .DuplicateOf}}<p class="dup" id="dump-{{.Seq}}">Dump {{.Seq}}: duplicate of <a href="#dump-{{.DuplicateOf.Seq}}">dump {{.DuplicateOf.Seq}}</a></p>
{{else}}<table id="dump-{{.Seq}}">
<caption>Dump {{.Seq}}</caption>
<tr><th>function</th><th>arguments</th><th>location</th></tr>
{{range .Frames}}<tr><td>{{.Func}}</td><td>{{.Args}}</td><td>{{if .Link}}<a href="{{.Link}}">{{.Location}}</a>{{else}}{{.Location}}{{end}}</td></tr>
{{end}}</table>
{{end}}{{end}}</body>
</html>
`))

type htmlDump struct {
	Seq         int
	DuplicateOf *htmlDump
	Frames      []htmlFrame
}

type htmlFrame struct {
	Func     string
	Args     string
	Location string
	Link     string
}

// HTML writes the dump collection as an HTML document with one table per
// unique dump. When baseURL is set, source locations are hyperlinked as
// baseURL/file#Lline.
func HTML(w io.Writer, dumps []*stack.Dump, baseURL string) error {
	firsts := stack.Dedup(dumps)

	rendered := make([]*htmlDump, len(dumps))
	for i, d := range dumps {
		hd := &htmlDump{Seq: d.Seq}
		if firsts[i] != i {
			hd.DuplicateOf = rendered[firsts[i]]
		} else {
			for _, f := range d.Frames {
				hd.Frames = append(hd.Frames, htmlFrame{
					Func:     f.Func,
					Args:     f.Args,
					Location: f.Location(),
					Link:     sourceLink(baseURL, f),
				})
			}
		}
		rendered[i] = hd
	}

	return htmlTemplate.Execute(w, struct{ Dumps []*htmlDump }{rendered})
}

func sourceLink(baseURL string, f stack.Frame) string {
	if baseURL == "" || f.File == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteByte('/')
	b.WriteString(f.File)
	if f.Line > 0 {
		b.WriteString("#L")
		b.WriteString(strconv.Itoa(f.Line))
	}
	return b.String()
}
