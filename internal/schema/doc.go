// Package schema holds the versioned Qobj wire contracts and validates
// canonical payload documents against them.
//
// Each version is a CUE document embedded from schemas/<version>.cue that
// defines one closed definition per payload kind (#QasmQobj, #PulseQobj).
// A Schema is an explicit value handed to the validator; nothing in this
// package keeps a process-wide current schema.
//
// A Schema wraps a cue.Context and is not safe for concurrent use. Load a
// separate Schema per goroutine.
package schema
