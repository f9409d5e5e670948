package actions

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconsole/internal/model"
)

const base = "https://api.example.com"

func mustLookup(t *testing.T, id model.ActionID) Action {
	t.Helper()
	a, ok := Lookup(id)
	require.True(t, ok, "action %s not registered", id)
	return a
}

func bodyJSON(t *testing.T, d model.Descriptor) string {
	t.Helper()
	if d.Body == nil {
		return ""
	}
	b, err := json.Marshal(d.Body)
	require.NoError(t, err)
	return string(b)
}

func TestTable_CoversEveryAction(t *testing.T) {
	ids := []model.ActionID{
		model.GetCertificate, model.Freeze, model.GetTags, model.SendMessage,
		model.EnableLostMode, model.GetIntegration, model.GetSoftwareInventory,
		model.GetLegalAssetStates, model.SetDeviceAssetState, model.GetDeviceStates,
		model.Unfreeze, model.AddTag,
	}
	all := All()
	require.Len(t, all, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, all[i].ID)
		mustLookup(t, id)
	}

	_, ok := Lookup("reboot")
	assert.False(t, ok)
}

func TestBuild_ValidInputs(t *testing.T) {
	form := model.FormState{Serial: "ABC123", State: "retired", Code: "int-7"}

	tests := []struct {
		id     model.ActionID
		form   model.FormState
		inputs model.Inputs
		method string
		url    string
		body   string
	}{
		{
			id:     model.GetCertificate,
			inputs: model.Inputs{"token": "tok"},
			method: http.MethodGet,
			url:    base + "/api/device/ABC123/certificate/tok",
		},
		{
			id:     model.Freeze,
			inputs: model.Inputs{"message": "Hi", "duration": "4", "date": "2024-01-01"},
			method: http.MethodPut,
			url:    base + "/api/device/ABC123/freeze",
			body:   `{"message":"Hi","duration":4,"date":"2024-01-01"}`,
		},
		{
			id:     model.GetTags,
			method: http.MethodGet,
			url:    base + "/api/tags",
		},
		{
			id: model.SendMessage,
			inputs: model.Inputs{
				"message": "Return to IT", "subject": "Notice", "sender": "ops",
				"dateTime": "2024-01-01T10:00:00", "priority": "2",
			},
			method: http.MethodPost,
			url:    base + "/api/device/ABC123/send_message",
			body:   `{"message":"Return to IT","subject":"Notice","sender":"ops","dateTime":"2024-01-01T10:00:00","priority":2}`,
		},
		{
			id: model.EnableLostMode,
			inputs: model.Inputs{
				"message": "Lost", "phoneNumber": "+4512345678", "date": "2024-02-02",
				"footnote": "reward", "header": "Please call",
			},
			method: http.MethodPost,
			url:    base + "/api/device/ABC123/enable_lost_mode",
			body:   `{"message":"Lost","phoneNumber":"+4512345678","date":"2024-02-02","footnote":"reward","header":"Please call"}`,
		},
		{
			id:     model.GetIntegration,
			method: http.MethodGet,
			url:    base + "/api/integration/int-7",
		},
		{
			id:     model.GetSoftwareInventory,
			inputs: model.Inputs{"softwareName": "Chrome", "version": "120"},
			method: http.MethodGet,
			url:    base + "/api/software-inventory/list?serialNumber=ABC123&softwareName=Chrome&version=120",
		},
		{
			id:     model.GetLegalAssetStates,
			method: http.MethodGet,
			url:    base + "/api/device/legal-asset-state",
		},
		{
			id:     model.SetDeviceAssetState,
			method: http.MethodPost,
			url:    base + "/api/device/ABC123/asset-state/retired",
		},
		{
			id:     model.Unfreeze,
			method: http.MethodPut,
			url:    base + "/api/device/ABC123/unfreeze",
		},
		{
			id:     model.AddTag,
			inputs: model.Inputs{"tag": "lab"},
			method: http.MethodPost,
			url:    base + "/api/tag/addtag/ABC123/lab",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			a := mustLookup(t, tt.id)
			d, err := a.Build(base, form, tt.inputs)
			require.NoError(t, err)
			assert.Equal(t, tt.id, d.Action)
			assert.Equal(t, tt.method, d.Method)
			assert.Equal(t, tt.url, d.URL)
			assert.Equal(t, tt.body, bodyJSON(t, d))
		})
	}
}

func TestBuild_EmptySerialFails(t *testing.T) {
	full := model.Inputs{
		"token": "t", "message": "m", "duration": "1", "date": "d", "subject": "s",
		"sender": "x", "dateTime": "dt", "priority": "1", "phoneNumber": "p",
		"footnote": "f", "header": "h", "softwareName": "n", "version": "v", "tag": "g",
	}
	form := model.FormState{State: "active", Code: "c"}

	for _, a := range All() {
		if !a.NeedsField(model.FieldSerial) || a.ID == model.GetDeviceStates {
			continue
		}
		t.Run(string(a.ID), func(t *testing.T) {
			d, err := a.Build(base, form, full)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Empty(t, d.URL)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, a.ID, verr.Action)
		})
	}
}

func TestBuild_ValidationMessages(t *testing.T) {
	form := model.FormState{Serial: "S1"}
	tests := []struct {
		id  model.ActionID
		msg string
	}{
		{model.GetCertificate, "Serial number and token are required"},
		{model.Freeze, "All fields are required"},
		{model.SendMessage, "All fields are required"},
		{model.EnableLostMode, "All fields are required"},
		{model.GetIntegration, "Code is required"},
		{model.GetSoftwareInventory, "All fields are required"},
		{model.SetDeviceAssetState, "Serial number and state are required"},
		{model.AddTag, "Serial number and tag are required"},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			// no prompted values: every prompt was cancelled
			_, err := mustLookup(t, tt.id).Build(base, form, nil)
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())
		})
	}

	_, err := mustLookup(t, model.Unfreeze).Build(base, model.FormState{}, nil)
	require.Error(t, err)
	assert.Equal(t, "Serial number is required", err.Error())
}

func TestBuild_PartialPromptsFail(t *testing.T) {
	a := mustLookup(t, model.Freeze)
	_, err := a.Build(base, model.FormState{Serial: "S"}, model.Inputs{"message": "Hi", "duration": "4"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuild_DeviceStatesQuery(t *testing.T) {
	a := mustLookup(t, model.GetDeviceStates)
	tests := []struct {
		name string
		form model.FormState
		url  string
	}{
		{"neither", model.FormState{}, base + "/api/devicestate"},
		{"serial only", model.FormState{Serial: "X"}, base + "/api/devicestate?serialNumber=X"},
		{"state only", model.FormState{State: "Y"}, base + "/api/devicestate?state=Y"},
		{"both", model.FormState{Serial: "X", State: "Y"}, base + "/api/devicestate?serialNumber=X&state=Y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := a.Build(base, tt.form, nil)
			require.NoError(t, err)
			assert.Equal(t, http.MethodGet, d.Method)
			assert.Equal(t, tt.url, d.URL)
			assert.Nil(t, d.Body)
		})
	}
}

func TestBuild_NoEscaping(t *testing.T) {
	d, err := mustLookup(t, model.AddTag).Build(base, model.FormState{Serial: "a b"}, model.Inputs{"tag": "x/y"})
	require.NoError(t, err)
	assert.Equal(t, base+"/api/tag/addtag/a b/x/y", d.URL)
}

func TestBuild_TrailingSlashEndpoint(t *testing.T) {
	d, err := mustLookup(t, model.GetTags).Build(base+"/", model.FormState{}, nil)
	require.NoError(t, err)
	assert.Equal(t, base+"/api/tags", d.URL)
}

func TestBuild_NonNumericDuration(t *testing.T) {
	d, err := mustLookup(t, model.Freeze).Build(base, model.FormState{Serial: "S"},
		model.Inputs{"message": "m", "duration": "soon", "date": "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, `{"message":"m","duration":null,"date":"2024-01-01"}`, bodyJSON(t, d))
}
