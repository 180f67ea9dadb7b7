package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingTarget      = errors.New("no target context selected")
	ErrMissingFile        = errors.New("no file selected")
	ErrInvalidFileFormat  = errors.New("invalid file format")
	ErrDeleteSelf         = errors.New("cannot delete own account")
	ErrSubmitInFlight     = errors.New("a submit is already in flight")
	ErrConfirmRequired    = errors.New("delete requires confirmation")
)

// FieldErrors holds field-keyed validation messages returned by the remote
// service on a rejected create or update.
type FieldErrors map[string]string

// Flatten joins all messages into one display string, keys sorted so the
// output is stable.
func (fe FieldErrors) Flatten() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(fe))
	for _, k := range keys {
		msgs = append(msgs, fe[k])
	}
	return strings.Join(msgs, ", ")
}

func (fe FieldErrors) Error() string {
	return fmt.Sprintf("validation failed: %s", fe.Flatten())
}

type RequiredFieldError struct {
	Field string
}

func (e RequiredFieldError) Error() string {
	return fmt.Sprintf("field '%s' is required", e.Field)
}
