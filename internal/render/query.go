package render

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

var ErrNotJSON = errors.New("response body is not JSON")

// Query replaces the body panel with the result of a JMESPath expression
// evaluated against the parsed JSON body.
func Query(p Panels, expr string) (Panels, error) {
	if p.IsError() || p.BodyKind != BodyJSON {
		return p, ErrNotJSON
	}
	out, err := jmespath.Search(expr, p.data)
	if err != nil {
		return p, fmt.Errorf("query %q: %w", expr, err)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return p, fmt.Errorf("encode query result: %w", err)
	}
	p.data = out
	if s, ok := out.(string); ok {
		p.Body = s
	} else {
		p.Body = string(b)
	}
	return p, nil
}
