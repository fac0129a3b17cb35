package qobj

import (
	"errors"
	"fmt"

	"github.com/roach88/qobj/internal/canonical"
	"github.com/roach88/qobj/internal/schema"
)

// ValidateQobjAgainstSchema checks q against the given schema version.
//
// The payload is converted to its dictionary form, encoded as canonical
// JSON and checked against the schema definition for q.Kind(). A
// non-conforming payload yields *schema.SchemaValidationError, which
// matches schema.ErrMalformedPayload and names the offending field path.
func ValidateQobjAgainstSchema(q Qobj, s *schema.Schema) error {
	if q == nil {
		return errors.New("validate qobj: nil payload")
	}
	if s == nil {
		return errors.New("validate qobj: nil schema")
	}

	dict, err := q.ToDict()
	if err != nil {
		return fmt.Errorf("validate qobj: %w", err)
	}
	doc, err := canonical.Marshal(dict)
	if err != nil {
		return fmt.Errorf("validate qobj: %w", err)
	}
	return s.ValidateJSON(string(q.Kind()), doc)
}
