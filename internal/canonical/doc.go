// Package canonical produces RFC 8785 canonical JSON for payload dictionaries
// and derives content-addressed identifiers from it.
//
// Input values are the shapes produced by Decode: map[string]any, []any,
// string, json.Number, bool and nil. Numbers are re-rendered in the ES6
// shortest form so that "1.0" and "1" canonicalize identically.
//
// Key design constraints:
//   - Object keys sorted by UTF-16 code units, not UTF-8 bytes
//   - Strings NFC normalized, no HTML escaping
//   - NaN and infinities rejected
package canonical
