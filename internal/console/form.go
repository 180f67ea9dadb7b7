package console

import (
	"strconv"
	"strings"

	"exam-admin-console/internal/model"
	errs "exam-admin-console/pkg/errors"

	"github.com/go-playground/validator/v10"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// form is the record form's state machine. It has no I/O of its own; the
// screen drives it and performs the remote calls between transitions.
type form struct {
	res      Resource
	notices  *Notices
	validate *validator.Validate

	mode       Mode
	targetID   string
	draft      map[string]string
	submitting bool
	// scrollTop tells the view to bring the form into sight after an edit
	// begins; it is consumed by the next state snapshot.
	scrollTop bool
}

func newForm(res Resource, notices *Notices) *form {
	f := &form{
		res:      res,
		notices:  notices,
		validate: validator.New(),
		mode:     ModeCreate,
	}
	f.draft = f.defaults()
	return f
}

func (f *form) defaults() map[string]string {
	draft := make(map[string]string, len(f.res.Fields))
	for _, field := range f.res.Fields {
		draft[field.Name] = field.Default
	}
	return draft
}

// ensureDefaults pre-selects the first available option into empty select
// fields. With no options left the field simply stays empty.
func (f *form) ensureDefaults(options func(string) []Option) {
	for _, field := range f.res.Fields {
		if field.Kind != FieldSelect || f.draft[field.Name] != "" {
			continue
		}
		if opts := options(field.Lookup); len(opts) > 0 {
			f.draft[field.Name] = opts[0].Value
		}
	}
}

// change updates one field in place and clears any active error notice.
// The success notice survives, matching how the console always behaved.
func (f *form) change(name, value string) {
	if _, ok := f.res.field(name); !ok {
		return
	}
	f.draft[name] = value
	f.notices.Error = ""
}

// beginEdit copies a record into the draft and switches to edit mode.
// Wire-format datetimes are converted to the minute-precision input value.
func (f *form) beginEdit(r model.Record) {
	f.mode = ModeEdit
	f.targetID = r.ID()
	for _, field := range f.res.Fields {
		switch field.Kind {
		case FieldDateTime:
			f.draft[field.Name] = wireToInput(r.StringField(field.Name))
		case FieldCheckbox:
			f.draft[field.Name] = strconv.FormatBool(r.BoolField(field.Name))
		default:
			f.draft[field.Name] = r.StringField(field.Name)
		}
	}
	f.notices.Reset()
	f.scrollTop = true
}

// cancel discards the draft and restores create-mode defaults.
func (f *form) cancel(options func(string) []Option) {
	f.mode = ModeCreate
	f.targetID = ""
	f.draft = f.defaults()
	if options != nil {
		f.ensureDefaults(options)
	}
}

// requireFields is the only client-side validation: required fields must be
// non-empty. Everything else is the remote service's business.
func (f *form) requireFields() error {
	for _, field := range f.res.Fields {
		required := field.Required || (field.RequiredOnCreate && f.mode == ModeCreate)
		if !required {
			continue
		}
		if err := f.validate.Var(f.draft[field.Name], "required"); err != nil {
			return errs.RequiredFieldError{Field: field.Name}
		}
	}
	return nil
}

// payload builds the request body from the draft. Checkboxes travel as
// booleans; everything else as the string the input held.
func (f *form) payload() map[string]any {
	body := make(map[string]any, len(f.res.Fields))
	for _, field := range f.res.Fields {
		value := f.draft[field.Name]
		if field.Kind == FieldCheckbox {
			body[field.Name] = value == "true"
			continue
		}
		body[field.Name] = value
	}
	return body
}

// applyCreateOK resets the free-text fields while preserving the selected
// reference fields for rapid repeated entry.
func (f *form) applyCreateOK() {
	for _, field := range f.res.Fields {
		if field.Preserve {
			continue
		}
		f.draft[field.Name] = field.Default
	}
	f.notices.Ok(f.res.Texts.CreateOK)
}

func (f *form) applyUpdateOK(options func(string) []Option) {
	f.cancel(options)
	f.notices.Ok(f.res.Texts.UpdateOK)
}

// wireToInput converts "2006-01-02 15:04:05" into the datetime-local value
// "2006-01-02T15:04", truncated to minute precision.
func wireToInput(s string) string {
	s = strings.Replace(s, " ", "T", 1)
	if len(s) > 16 {
		s = s[:16]
	}
	return s
}
