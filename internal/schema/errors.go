package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrMalformedPayload is the error kind matched by every
// SchemaValidationError.
var ErrMalformedPayload = errors.New("malformed payload")

// FieldError is a single non-conforming field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SchemaValidationError reports that a payload does not conform to a
// schema version. Fields is sorted by path and never empty.
type SchemaValidationError struct {
	Version string       `json:"version"`
	Kind    string       `json:"kind"`
	Fields  []FieldError `json:"fields"`
}

// Path returns the first offending field path.
func (e *SchemaValidationError) Path() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Path
}

func (e *SchemaValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("qobj schema %s: %s", e.Version, ErrMalformedPayload)
	}
	first := e.Fields[0]
	msg := fmt.Sprintf("qobj schema %s: %s: %s", e.Version, displayPath(first.Path), first.Message)
	if n := len(e.Fields) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrMalformedPayload) hold.
func (e *SchemaValidationError) Unwrap() error {
	return ErrMalformedPayload
}

func displayPath(p string) string {
	if p == "" {
		return "<root>"
	}
	return p
}

func newFieldError(version, kind, path, message string) *SchemaValidationError {
	return &SchemaValidationError{
		Version: version,
		Kind:    kind,
		Fields:  []FieldError{{Path: path, Message: message}},
	}
}

// fromCUE flattens a CUE evaluation error into sorted, de-duplicated
// field errors. Paths are relative to the payload root, so the leading def
// selector of the checked definition is dropped.
func fromCUE(version, kind, def string, err error) *SchemaValidationError {
	seen := make(map[FieldError]bool)
	var fields []FieldError
	for _, e := range cueerrors.Errors(err) {
		path := e.Path()
		if len(path) > 0 && path[0] == def {
			path = path[1:]
		}
		format, args := e.Msg()
		fe := FieldError{
			Path:    strings.Join(path, "."),
			Message: fieldMessage(format, args),
		}
		if seen[fe] {
			continue
		}
		seen[fe] = true
		fields = append(fields, fe)
	}
	if len(fields) == 0 {
		fields = append(fields, FieldError{Message: err.Error()})
	}
	slices.SortFunc(fields, func(a, b FieldError) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Message, b.Message)
	})
	return &SchemaValidationError{Version: version, Kind: kind, Fields: fields}
}

// fieldMessage renders a CUE message. Decoded JSON is always concrete, so
// an incomplete value can only mean the field is absent.
func fieldMessage(format string, args []any) string {
	if strings.HasPrefix(format, "incomplete value") || strings.HasPrefix(format, "field is required") {
		return "field is required"
	}
	return fmt.Sprintf(format, args...)
}
