package openapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"devconsole/internal/actions"
	"devconsole/internal/model"
)

const defaultTimeout = 10 * time.Second

var pathParamRe = regexp.MustCompile(`\{([^}]+)\}`)

// Document describes the backend calls made by the given actions as an
// OpenAPI 3 document.
func Document(acts []actions.Action) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Device management API",
			Description: "Every call carries Authorization: Bearer <token> and Content-Type: application/json.",
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(),
	}

	for _, a := range acts {
		item := doc.Paths.Value(a.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(a.Path, item)
		}
		item.SetOperation(a.Method, operation(a))
	}
	return doc
}

func operation(a actions.Action) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = string(a.ID)
	op.Summary = a.Label

	for _, m := range pathParamRe.FindAllStringSubmatch(a.Path, -1) {
		p := openapi3.NewPathParameter(m[1]).WithSchema(openapi3.NewStringSchema())
		op.AddParameter(p)
	}
	for _, q := range a.Query {
		p := openapi3.NewQueryParameter(q.Name).
			WithRequired(q.Required).
			WithSchema(openapi3.NewStringSchema())
		op.AddParameter(p)
	}

	if len(a.Body) > 0 {
		s := openapi3.NewObjectSchema()
		for _, f := range a.Body {
			switch f.Type {
			case model.TypeInteger:
				s.WithProperty(f.Name, openapi3.NewIntegerSchema().WithNullable())
			default:
				s.WithProperty(f.Name, openapi3.NewStringSchema())
			}
			s.Required = append(s.Required, f.Name)
		}
		rb := openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(s)
		op.RequestBody = &openapi3.RequestBodyRef{Value: rb}
	}

	op.Responses = openapi3.NewResponses()
	op.Responses.Set("200", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Backend response, shown verbatim"),
	})
	return op
}

// Load reads an OpenAPI document from an http(s) URL, or from a local file
// when src starts with "@".
func Load(ctx context.Context, src string) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	loader.IsExternalRefsAllowed = true

	var (
		doc *openapi3.T
		err error
	)
	if strings.HasPrefix(src, "@") {
		doc, err = loader.LoadFromFile(strings.TrimPrefix(src, "@"))
	} else {
		doc, err = fetch(ctx, loader, src)
	}
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid spec: %w", err)
	}
	return doc, nil
}

func fetch(ctx context.Context, loader *openapi3.Loader, url string) (*openapi3.T, error) {
	client := &http.Client{Timeout: defaultTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return loader.LoadFromIoReader(resp.Body)
}

// ExtractEndpoints lists every operation of doc, sorted by path then method.
func ExtractEndpoints(doc *openapi3.T) []model.Endpoint {
	var out []model.Endpoint
	if doc == nil || doc.Paths == nil {
		return out
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			out = append(out, model.Endpoint{
				Method:      strings.ToUpper(method),
				Path:        path,
				Summary:     strings.TrimSpace(op.Summary),
				OperationID: strings.TrimSpace(op.OperationID),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Method < out[j].Method
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Match is one action checked against a backend document.
type Match struct {
	Action   model.ActionID
	Method   string
	Path     string
	Found    bool
	Endpoint model.Endpoint
}

// Coverage reports, per action, whether the backend declares the same
// method and path. Path parameter names are ignored.
func Coverage(acts []actions.Action, eps []model.Endpoint) []Match {
	index := map[string]model.Endpoint{}
	for _, ep := range eps {
		index[routeKey(ep.Method, ep.Path)] = ep
	}

	out := make([]Match, 0, len(acts))
	for _, a := range acts {
		ep, ok := index[routeKey(a.Method, a.Path)]
		out = append(out, Match{Action: a.ID, Method: a.Method, Path: a.Path, Found: ok, Endpoint: ep})
	}
	return out
}

func routeKey(method, path string) string {
	p := pathParamRe.ReplaceAllString(strings.TrimRight(path, "/"), "{}")
	return strings.ToUpper(method) + " " + p
}
