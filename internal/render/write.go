package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// WriteText prints the panels as plain sections.
func WriteText(w io.Writer, p Panels) error {
	if p.IsError() {
		_, err := fmt.Fprintf(w, "Error\n%s\n", p.Error)
		return err
	}
	_, err := fmt.Fprintf(w, "Status\n%s\n\nHeaders\n%s\nBody\n%s\n", p.Status, p.Headers, p.Body)
	return err
}

var htmlTmpl = template.Must(template.New("result").Parse(`{{if .Error}}<div class="response-box error">
    <h3>Error</h3>
    <pre>{{.Error}}</pre>
</div>
{{else}}<div class="response-box">
    <h3>Status</h3>
{{range .StatusLines}}    <p>{{.}}</p>
{{end}}</div>
<div class="response-box">
    <h3>Headers</h3>
    <pre>{{.Headers}}</pre>
</div>
<div class="response-box">
    <h3>Body</h3>
    <pre>{{.Body}}</pre>
</div>
{{end}}`))

// WriteHTML emits the panels as an HTML fragment of response boxes. All
// values are escaped.
func WriteHTML(w io.Writer, p Panels) error {
	return htmlTmpl.Execute(w, struct {
		Panels
		StatusLines []string
	}{p, strings.Split(p.Status, "\n")})
}
