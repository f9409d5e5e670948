package model

type ActionID string

type ParamType string

type FormField string

const (
	GetCertificate       ActionID = "getCertificate"
	Freeze               ActionID = "freeze"
	GetTags              ActionID = "getTags"
	SendMessage          ActionID = "sendMessage"
	EnableLostMode       ActionID = "enableLostMode"
	GetIntegration       ActionID = "getIntegration"
	GetSoftwareInventory ActionID = "getSoftwareInventory"
	GetLegalAssetStates  ActionID = "getLegalAssetStates"
	SetDeviceAssetState  ActionID = "setDeviceAssetState"
	GetDeviceStates      ActionID = "getDeviceStates"
	Unfreeze             ActionID = "unfreeze"
	AddTag               ActionID = "addTag"

	FieldSerial FormField = "serial"
	FieldState  FormField = "state"
	FieldCode   FormField = "code"

	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
)

// BodyField is one member of a JSON request body.
type BodyField struct {
	Name string
	Type ParamType
}

// Credentials is what the console sends with every call. HasToken is false
// when no token was ever saved.
type Credentials struct {
	Endpoint string
	Token    string
	HasToken bool
}

// FormState holds the inputs shared by all actions.
type FormState struct {
	Serial string
	State  string
	Code   string
}

func (f FormState) Value(field FormField) string {
	switch field {
	case FieldSerial:
		return f.Serial
	case FieldState:
		return f.State
	case FieldCode:
		return f.Code
	default:
		return ""
	}
}

func (f *FormState) Set(field FormField, v string) {
	switch field {
	case FieldSerial:
		f.Serial = v
	case FieldState:
		f.State = v
	case FieldCode:
		f.Code = v
	}
}

// Inputs are prompted values keyed by prompt key. A cancelled prompt is
// simply absent.
type Inputs map[string]string

// Descriptor is one fully resolved HTTP call.
type Descriptor struct {
	Action ActionID
	Method string
	URL    string
	Body   any
}

// Endpoint is one operation of a backend contract, as read from an OpenAPI
// document.
type Endpoint struct {
	Method      string
	Path        string
	Summary     string
	OperationID string
}
