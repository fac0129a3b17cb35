package qobj

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/qobj/internal/canonical"
	"github.com/roach88/qobj/internal/schema"
)

// Kind is the payload flavor carried in the "type" field.
type Kind string

const (
	KindQASM  Kind = "QASM"
	KindPulse Kind = "PULSE"
)

// DefaultSchemaVersion is stamped on payloads built by the constructors.
const DefaultSchemaVersion = schema.LatestVersion

// Qobj is a complete execution payload.
// Only *QasmQobj and *PulseQobj implement it.
type Qobj interface {
	// Kind reports the payload flavor.
	Kind() Kind

	// ID returns the payload's qobj_id.
	ID() string

	// ToDict returns the canonical dictionary form: the wire JSON decoded
	// into map[string]any with numbers kept as json.Number.
	ToDict() (map[string]any, error)

	qobj() // sealed
}

// NewQobjID returns a fresh time-ordered qobj_id.
func NewQobjID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Decode reads a payload of either flavor, dispatching on "type".
func Decode(data []byte) (Qobj, error) {
	var probe struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode qobj: %w", err)
	}

	switch probe.Type {
	case KindQASM:
		var q QasmQobj
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("decode qasm qobj: %w", err)
		}
		return &q, nil
	case KindPulse:
		var q PulseQobj
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("decode pulse qobj: %w", err)
		}
		return &q, nil
	default:
		return nil, fmt.Errorf("decode qobj: unknown type %q", probe.Type)
	}
}

// ContentID computes a content-addressed identifier for a payload.
// Equal dictionary forms always produce equal IDs.
func ContentID(q Qobj) (string, error) {
	dict, err := q.ToDict()
	if err != nil {
		return "", err
	}
	return canonical.ID(canonical.DomainPayload, dict)
}

// CanonicalJSON returns the RFC 8785 encoding of the dictionary form.
func CanonicalJSON(q Qobj) ([]byte, error) {
	dict, err := q.ToDict()
	if err != nil {
		return nil, err
	}
	return canonical.Marshal(dict)
}

// toDict converts a record to the canonical dictionary form.
func toDict(v any) (map[string]any, error) {
	generic, err := canonical.FromValue(v)
	if err != nil {
		return nil, fmt.Errorf("qobj to dict: %w", err)
	}
	m, ok := generic.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("qobj to dict: expected object, got %T", generic)
	}
	return m, nil
}
