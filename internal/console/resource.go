package console

// FieldKind mirrors the input widget a field is bound to.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldNumber   FieldKind = "number"
	FieldCheckbox FieldKind = "checkbox"
	FieldDateTime FieldKind = "datetime"
	FieldSelect   FieldKind = "select"
)

type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Required bool
	// RequiredOnCreate marks fields that must be filled for a new record
	// but may stay empty on edit, like a user's password.
	RequiredOnCreate bool
	// Lookup names the option source for select fields.
	Lookup string
	// Preserve keeps the field's value after a successful create, so the
	// operator can enter several records against the same selection.
	Preserve bool
	// Default is the initial draft value ("" unless stated).
	Default string
}

// LookupSpec describes an auxiliary reference collection the form needs.
type LookupSpec struct {
	Name       string
	Path       string
	// Key extracts one collection from a grouped endpoint such as the
	// student meta endpoint; empty means the endpoint is a plain list.
	Key        string
	LabelField string
	// ActiveOnly drops records whose is_active flag is off.
	ActiveOnly bool
}

type ImportSpec struct {
	Path         string
	TemplatePath string
	// TargetField is the multipart field carrying the target-context id.
	TargetField  string
	TargetLookup string
}

// NoticeTexts are the operator-facing messages, kept in the language the
// console has always spoken.
type NoticeTexts struct {
	FetchFail     string
	CreateOK      string
	UpdateOK      string
	DeleteOK      string
	SaveFail      string
	DeleteFail    string
	ImportFail    string
	MissingTarget string
	MissingFile   string
	BadFile       string
	ConfirmPrompt string
	SelfDelete    string
}

// ActiveRef hides list rows whose referenced parent is no longer active,
// the way the proctor list only shows proctors of active exam events.
type ActiveRef struct {
	FKField    string
	NestedFlag string
	Lookup     string
}

// Resource is the full configuration of one console screen. The same
// engine is instantiated once per entry instead of re-implementing each
// page by hand.
type Resource struct {
	Name         string
	Title        string
	Path         string
	Fields       []FieldSpec
	Lookups      []LookupSpec
	SearchFields []string
	// GroupBy names the timestamp field records are grouped by calendar
	// day on; empty means a flat list.
	GroupBy string
	Texts   NoticeTexts
	Import  *ImportSpec
	// GuardSelfDelete rejects deleting the authenticated user's own
	// account before any request is sent.
	GuardSelfDelete bool
	ActiveRef       *ActiveRef
}

// Option is one entry of a select field.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

func (r Resource) field(name string) (FieldSpec, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}
