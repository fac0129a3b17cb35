package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalQasm = `{
	"qobj_id": "q-1",
	"schema_version": "1.1.0",
	"type": "QASM",
	"header": {"backend_name": "qasm_simulator"},
	"config": {"shots": 1024},
	"experiments": [{"instructions": [{"name": "h", "qubits": [0]}]}]
}`

const minimalPulse = `{
	"qobj_id": "p-1",
	"schema_version": "1.1.0",
	"type": "PULSE",
	"header": {"backend_name": "pulse_device"},
	"config": {
		"meas_level": 2,
		"meas_return": "avg",
		"pulse_library": [{"name": "gauss", "samples": [[0.1, 0.0], [0.2, -0.1]]}],
		"qubit_lo_freq": [4.9],
		"meas_lo_freq": [6.5]
	},
	"experiments": [{"instructions": [
		{"name": "gauss", "t0": 0, "ch": "d0"},
		{"name": "acquire", "t0": 10, "duration": 100, "qubits": [0], "memory_slot": [0]}
	]}]
}`

func TestVersionsSorted(t *testing.T) {
	assert.Equal(t, []string{"1.0.0", "1.1.0"}, Versions())
	assert.Equal(t, LatestVersion, Versions()[len(Versions())-1])
}

func TestLoadUnknownVersion(t *testing.T) {
	_, err := Load("9.9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown qobj schema version")
	assert.Contains(t, err.Error(), "1.1.0")
}

func TestKindsPerVersion(t *testing.T) {
	assert.Equal(t, []string{"QASM"}, MustLoad("1.0.0").Kinds())
	assert.Equal(t, []string{"PULSE", "QASM"}, MustLoad("1.1.0").Kinds())
}

func TestValidateMinimalQasm(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.NoError(t, s.ValidateJSON("QASM", []byte(minimalQasm)))
}

func TestValidateMinimalPulse(t *testing.T) {
	s := MustLoad("1.1.0")
	assert.NoError(t, s.ValidateJSON("PULSE", []byte(minimalPulse)))
}

func TestValidateMissingBackendName(t *testing.T) {
	doc := `{
		"qobj_id": "q-1",
		"schema_version": "1.1.0",
		"type": "QASM",
		"header": {},
		"config": {"shots": 1024},
		"experiments": [{"instructions": []}]
	}`

	err := MustLoad("1.1.0").ValidateJSON("QASM", []byte(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedPayload))

	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{{Path: "header.backend_name", Message: "field is required"}}, verr.Fields)
	assert.Equal(t, "1.1.0", verr.Version)
	assert.Equal(t, "qobj schema 1.1.0: header.backend_name: field is required", err.Error())
}

func TestFieldPathsAreRelativeToPayload(t *testing.T) {
	doc := `{
		"qobj_id": "",
		"schema_version": "1.1.0",
		"type": "QASM",
		"header": {"backend_name": "sim"},
		"config": {"shots": 0},
		"experiments": [{"instructions": [{"name": ""}]}]
	}`

	err := MustLoad("1.1.0").ValidateJSON("QASM", []byte(doc))

	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr))
	require.NotEmpty(t, verr.Fields)
	for _, fe := range verr.Fields {
		assert.NotContains(t, fe.Path, "#", "path %q", fe.Path)
	}
	var paths []string
	for _, fe := range verr.Fields {
		paths = append(paths, fe.Path)
	}
	assert.Contains(t, paths, "config.shots")
	assert.Contains(t, paths, "qobj_id")
	assert.Contains(t, paths, "experiments.0.instructions.0.name")
}

func TestFieldMessage(t *testing.T) {
	assert.Equal(t, "field is required", fieldMessage("incomplete value %v", []any{`!=""`}))
	assert.Equal(t, "field is required", fieldMessage("field is required but not present", nil))
	assert.Equal(t, "invalid value 0 (out of bound >=1)",
		fieldMessage("invalid value %v (out of bound %s)", []any{0, ">=1"}))
}

func TestValidateOpenHeaderInOlderVersion(t *testing.T) {
	doc := `{
		"qobj_id": "q-1",
		"schema_version": "1.0.0",
		"type": "QASM",
		"header": {"description": "no backend"},
		"config": {"shots": 1},
		"experiments": [{"instructions": []}]
	}`

	assert.NoError(t, MustLoad("1.0.0").ValidateJSON("QASM", []byte(doc)))
}

func TestValidateSchemaVersionMismatch(t *testing.T) {
	err := MustLoad("1.0.0").ValidateJSON("QASM", []byte(minimalQasm))

	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "schema_version", verr.Path())
}

func TestValidatePulseUnsupportedByOlderVersion(t *testing.T) {
	err := MustLoad("1.0.0").ValidateJSON("PULSE", []byte(minimalPulse))

	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "type", verr.Path())
	assert.Contains(t, verr.Error(), "not defined by schema 1.0.0")
}

func TestValidateUnknownKind(t *testing.T) {
	err := MustLoad("1.1.0").ValidateJSON("ANALOG", []byte(`{}`))

	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "type", verr.Path())
}

func TestValidateRejectsUnknownTopLevelField(t *testing.T) {
	doc := `{
		"qobj_id": "q-1",
		"schema_version": "1.1.0",
		"type": "QASM",
		"header": {"backend_name": "sim"},
		"config": {"shots": 1},
		"experiments": [{"instructions": []}],
		"bogus": true
	}`

	err := MustLoad("1.1.0").ValidateJSON("QASM", []byte(doc))

	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "bogus", verr.Path())
}

func TestValidateReportsNestedInstructionPath(t *testing.T) {
	doc := `{
		"qobj_id": "q-1",
		"schema_version": "1.1.0",
		"type": "QASM",
		"header": {"backend_name": "sim"},
		"config": {"shots": 1},
		"experiments": [{"instructions": [{"name": "h", "qubits": [-1]}]}]
	}`

	err := MustLoad("1.1.0").ValidateJSON("QASM", []byte(doc))

	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "experiments.0.instructions.0.qubits.0", verr.Path())
}

func TestValidateInvalidJSON(t *testing.T) {
	err := MustLoad("1.1.0").ValidateJSON("QASM", []byte(`{"qobj_id":`))

	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields[0].Message, "invalid JSON")
}

func TestValidateIsRepeatable(t *testing.T) {
	doc := []byte(`{"qobj_id": "", "schema_version": "1.1.0", "type": "QASM",
		"header": {}, "config": {}, "experiments": []}`)
	s := MustLoad("1.1.0")

	first := s.ValidateJSON("QASM", doc)
	second := s.ValidateJSON("QASM", doc)
	require.Error(t, first)
	assert.Equal(t, first.Error(), second.Error())
	assert.Equal(t, first.(*SchemaValidationError).Fields, second.(*SchemaValidationError).Fields)
}

func TestCompileCustomSchema(t *testing.T) {
	s, err := Compile("0.1.0-test", `
		#QasmQobj: {
			qobj_id: string
			...
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0-test", s.Version())
	assert.NoError(t, s.ValidateJSON("QASM", []byte(`{"qobj_id": "x", "anything": 1}`)))

	err = s.ValidateJSON("QASM", []byte(`{"anything": 1}`))
	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "qobj_id", verr.Path())
}

func TestCompileRejectsSchemaWithoutDefinitions(t *testing.T) {
	_, err := Compile("0.0.1", `#Other: string`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no payload definitions")
}

func TestCompileRejectsInvalidCUE(t *testing.T) {
	_, err := Compile("0.0.2", `#QasmQobj: {`)
	require.Error(t, err)
}
