// Package qobj defines the Qobj execution payload: the record types a
// backend consumes, in a gate-level (QASM) and a pulse-level (PULSE)
// flavor, plus validation against a versioned schema.
//
// Both flavors share one shape: a header, a run configuration and an
// ordered list of experiments, each experiment owning its instruction list.
// Records carry no cross-field validation at construction time. Conformance
// is checked by ValidateQobjAgainstSchema against an explicit schema.Schema.
//
// All JSON tags use snake_case and match the backend wire format. Headers
// and configs accept extra fields, which round-trip through Extra.
package qobj
