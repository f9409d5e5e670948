// Package render turns a call outcome into the panels the operator sees:
// status, headers and body for a response, or a single error panel.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"devconsole/internal/httpclient"
)

type BodyKind int

const (
	BodyText BodyKind = iota
	BodyJSON
	BodyParseError
)

// Panels is one rendered outcome. When Error is set it is the only panel.
type Panels struct {
	Error string

	Status   string
	Headers  string
	Body     string
	BodyKind BodyKind

	data any
}

func (p Panels) IsError() bool { return p.Error != "" }

var utf8BOM = []byte("\xef\xbb\xbf")

// Response renders a completed call.
func Response(res httpclient.Result) Panels {
	p := Panels{
		Status:  fmt.Sprintf("Status Code: %d\nStatus Text: %s", res.StatusCode, res.StatusText),
		Headers: formatHeaders(res.Headers),
	}

	if !isJSON(res.ContentType) {
		p.Body = string(res.Body)
		p.BodyKind = BodyText
		return p
	}

	// a leading byte order mark is not part of the JSON text
	body := bytes.TrimPrefix(res.Body, utf8BOM)
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		p.Body = "Error parsing response body: " + err.Error()
		p.BodyKind = BodyParseError
		return p
	}
	p.data = v
	p.BodyKind = BodyJSON

	// a bare JSON string shows as its text
	if s, ok := v.(string); ok {
		p.Body = s
		return p
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		p.Body = "Error parsing response body: " + err.Error()
		p.BodyKind = BodyParseError
		return p
	}
	p.Body = buf.String()
	return p
}

// Error renders a failed call.
func Error(err error) Panels {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Panels{Error: msg}
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

func formatHeaders(hs []httpclient.Header) string {
	var sb strings.Builder
	for _, h := range hs {
		sb.WriteString(h.Name)
		sb.WriteString(": ")
		sb.WriteString(h.Value)
		sb.WriteString("\n")
	}
	return sb.String()
}
