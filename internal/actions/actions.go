// Package actions is the dispatch table of the console: every action the
// operator can trigger, the inputs it needs, and a pure builder that turns
// those inputs into a request descriptor.
package actions

import (
	"net/http"
	"strings"

	"devconsole/internal/model"
)

// Prompt is one value collected interactively when the action runs.
type Prompt struct {
	Key   string
	Label string
}

type buildFunc func(base string, f model.FormState, in model.Inputs) (url string, body any, err error)

// QueryParam documents one query string parameter of an action.
type QueryParam struct {
	Name     string
	Required bool
}

// Action is one entry of the dispatch table.
type Action struct {
	ID      model.ActionID
	Label   string
	Method  string
	Path    string
	Query   []QueryParam
	Fields  []model.FormField
	Prompts []Prompt
	Body    []model.BodyField

	build buildFunc
}

// Build resolves the action against the endpoint and the collected inputs.
// It never performs I/O. A missing input yields a *ValidationError.
func (a Action) Build(endpoint string, form model.FormState, in model.Inputs) (model.Descriptor, error) {
	u, body, err := a.build(strings.TrimRight(endpoint, "/"), form, in)
	if err != nil {
		return model.Descriptor{}, err
	}
	return model.Descriptor{Action: a.ID, Method: a.Method, URL: u, Body: body}, nil
}

// NeedsField reports whether the action reads the shared form field.
func (a Action) NeedsField(field model.FormField) bool {
	for _, f := range a.Fields {
		if f == field {
			return true
		}
	}
	return false
}

var table = []Action{
	{
		ID:      model.GetCertificate,
		Label:   "Get certificate",
		Method:  http.MethodGet,
		Path:    "/api/device/{serial}/certificate/{token}",
		Fields:  []model.FormField{model.FieldSerial},
		Prompts: []Prompt{{"token", "Enter token:"}},
		build: func(base string, f model.FormState, in model.Inputs) (string, any, error) {
			token := in["token"]
			if err := requireFields(model.GetCertificate, "Serial number and token are required", f.Serial, token); err != nil {
				return "", nil, err
			}
			return base + "/api/device/" + f.Serial + "/certificate/" + token, nil, nil
		},
	},
	{
		ID:     model.Freeze,
		Label:  "Freeze device",
		Method: http.MethodPut,
		Path:   "/api/device/{serial}/freeze",
		Fields: []model.FormField{model.FieldSerial},
		Prompts: []Prompt{
			{"message", "Enter freeze message:"},
			{"duration", "Enter duration (in hours):"},
			{"date", "Enter date (YYYY-MM-DD):"},
		},
		Body: []model.BodyField{
			{Name: "message", Type: model.TypeString},
			{Name: "duration", Type: model.TypeInteger},
			{Name: "date", Type: model.TypeString},
		},
		build: func(base string, f model.FormState, in model.Inputs) (string, any, error) {
			if err := requireFields(model.Freeze, allRequired, f.Serial, in["message"], in["duration"], in["date"]); err != nil {
				return "", nil, err
			}
			body := FreezeBody{
				Message:  in["message"],
				Duration: ParseInt(in["duration"]),
				Date:     in["date"],
			}
			return base + "/api/device/" + f.Serial + "/freeze", body, nil
		},
	},
	{
		ID:     model.GetTags,
		Label:  "List tags",
		Method: http.MethodGet,
		Path:   "/api/tags",
		build: func(base string, _ model.FormState, _ model.Inputs) (string, any, error) {
			return base + "/api/tags", nil, nil
		},
	},
	{
		ID:     model.SendMessage,
		Label:  "Send message",
		Method: http.MethodPost,
		Path:   "/api/device/{serial}/send_message",
		Fields: []model.FormField{model.FieldSerial},
		Prompts: []Prompt{
			{"message", "Enter message:"},
			{"subject", "Enter subject:"},
			{"sender", "Enter sender:"},
			{"dateTime", "Enter date and time (YYYY-MM-DDTHH:mm:ss):"},
			{"priority", "Enter priority (integer):"},
		},
		Body: []model.BodyField{
			{Name: "message", Type: model.TypeString},
			{Name: "subject", Type: model.TypeString},
			{Name: "sender", Type: model.TypeString},
			{Name: "dateTime", Type: model.TypeString},
			{Name: "priority", Type: model.TypeInteger},
		},
		build: func(base string, f model.FormState, in model.Inputs) (string, any, error) {
			if err := requireFields(model.SendMessage, allRequired,
				f.Serial, in["message"], in["subject"], in["sender"], in["dateTime"], in["priority"]); err != nil {
				return "", nil, err
			}
			body := MessageBody{
				Message:  in["message"],
				Subject:  in["subject"],
				Sender:   in["sender"],
				DateTime: in["dateTime"],
				Priority: ParseInt(in["priority"]),
			}
			return base + "/api/device/" + f.Serial + "/send_message", body, nil
		},
	},
	{
		ID:     model.EnableLostMode,
		Label:  "Enable lost mode",
		Method: http.MethodPost,
		Path:   "/api/device/{serial}/enable_lost_mode",
		Fields: []model.FormField{model.FieldSerial},
		Prompts: []Prompt{
			{"message", "Enter lost mode message:"},
			{"phoneNumber", "Enter phone number:"},
			{"date", "Enter date (YYYY-MM-DD):"},
			{"footnote", "Enter footnote:"},
			{"header", "Enter header:"},
		},
		Body: []model.BodyField{
			{Name: "message", Type: model.TypeString},
			{Name: "phoneNumber", Type: model.TypeString},
			{Name: "date", Type: model.TypeString},
			{Name: "footnote", Type: model.TypeString},
			{Name: "header", Type: model.TypeString},
		},
		build: func(base string, f model.FormState, in model.Inputs) (string, any, error) {
			if err := requireFields(model.EnableLostMode, allRequired,
				f.Serial, in["message"], in["phoneNumber"], in["date"], in["footnote"], in["header"]); err != nil {
				return "", nil, err
			}
			body := LostModeBody{
				Message:     in["message"],
				PhoneNumber: in["phoneNumber"],
				Date:        in["date"],
				Footnote:    in["footnote"],
				Header:      in["header"],
			}
			return base + "/api/device/" + f.Serial + "/enable_lost_mode", body, nil
		},
	},
	{
		ID:     model.GetIntegration,
		Label:  "Get integration",
		Method: http.MethodGet,
		Path:   "/api/integration/{code}",
		Fields: []model.FormField{model.FieldCode},
		build: func(base string, f model.FormState, _ model.Inputs) (string, any, error) {
			if err := requireFields(model.GetIntegration, "Code is required", f.Code); err != nil {
				return "", nil, err
			}
			return base + "/api/integration/" + f.Code, nil, nil
		},
	},
	{
		ID:     model.GetSoftwareInventory,
		Label:  "Software inventory",
		Method: http.MethodGet,
		Path:   "/api/software-inventory/list",
		Query:  []QueryParam{{"serialNumber", true}, {"softwareName", true}, {"version", true}},
		Fields: []model.FormField{model.FieldSerial},
		Prompts: []Prompt{
			{"softwareName", "Enter software name:"},
			{"version", "Enter version:"},
		},
		build: func(base string, f model.FormState, in model.Inputs) (string, any, error) {
			name, version := in["softwareName"], in["version"]
			if err := requireFields(model.GetSoftwareInventory, allRequired, f.Serial, name, version); err != nil {
				return "", nil, err
			}
			return base + "/api/software-inventory/list?serialNumber=" + f.Serial +
				"&softwareName=" + name + "&version=" + version, nil, nil
		},
	},
	{
		ID:     model.GetLegalAssetStates,
		Label:  "Legal asset states",
		Method: http.MethodGet,
		Path:   "/api/device/legal-asset-state",
		build: func(base string, _ model.FormState, _ model.Inputs) (string, any, error) {
			return base + "/api/device/legal-asset-state", nil, nil
		},
	},
	{
		ID:     model.SetDeviceAssetState,
		Label:  "Set asset state",
		Method: http.MethodPost,
		Path:   "/api/device/{serial}/asset-state/{state}",
		Fields: []model.FormField{model.FieldSerial, model.FieldState},
		build: func(base string, f model.FormState, _ model.Inputs) (string, any, error) {
			if err := requireFields(model.SetDeviceAssetState, "Serial number and state are required", f.Serial, f.State); err != nil {
				return "", nil, err
			}
			return base + "/api/device/" + f.Serial + "/asset-state/" + f.State, nil, nil
		},
	},
	{
		ID:     model.GetDeviceStates,
		Label:  "Device states",
		Method: http.MethodGet,
		Path:   "/api/devicestate",
		Query:  []QueryParam{{"serialNumber", false}, {"state", false}},
		Fields: []model.FormField{model.FieldSerial, model.FieldState},
		build: func(base string, f model.FormState, _ model.Inputs) (string, any, error) {
			u := base + "/api/devicestate"
			if f.Serial != "" {
				u += "?serialNumber=" + f.Serial
			}
			if f.State != "" {
				sep := "?"
				if f.Serial != "" {
					sep = "&"
				}
				u += sep + "state=" + f.State
			}
			return u, nil, nil
		},
	},
	{
		ID:     model.Unfreeze,
		Label:  "Unfreeze device",
		Method: http.MethodPut,
		Path:   "/api/device/{serial}/unfreeze",
		Fields: []model.FormField{model.FieldSerial},
		build: func(base string, f model.FormState, _ model.Inputs) (string, any, error) {
			if err := requireFields(model.Unfreeze, "Serial number is required", f.Serial); err != nil {
				return "", nil, err
			}
			return base + "/api/device/" + f.Serial + "/unfreeze", nil, nil
		},
	},
	{
		ID:      model.AddTag,
		Label:   "Add tag",
		Method:  http.MethodPost,
		Path:    "/api/tag/addtag/{serial}/{tag}",
		Fields:  []model.FormField{model.FieldSerial},
		Prompts: []Prompt{{"tag", "Enter tag:"}},
		build: func(base string, f model.FormState, in model.Inputs) (string, any, error) {
			tag := in["tag"]
			if err := requireFields(model.AddTag, "Serial number and tag are required", f.Serial, tag); err != nil {
				return "", nil, err
			}
			return base + "/api/tag/addtag/" + f.Serial + "/" + tag, nil, nil
		},
	},
}

var byID = func() map[model.ActionID]Action {
	m := make(map[model.ActionID]Action, len(table))
	for _, a := range table {
		m[a.ID] = a
	}
	return m
}()

// All returns the actions in menu order.
func All() []Action {
	out := make([]Action, len(table))
	copy(out, table)
	return out
}

// Lookup finds an action by id.
func Lookup(id model.ActionID) (Action, bool) {
	a, ok := byID[id]
	return a, ok
}
