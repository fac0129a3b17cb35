package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestQASMAllCircuits(t *testing.T) {
	out, err := execute(t, "qasm", circuitFile("bell.yaml"))
	require.NoError(t, err)
	newGoldie(t).Assert(t, "qasm_bell", []byte(out))
}

func TestQASMSingleCircuit(t *testing.T) {
	out, err := execute(t, "qasm", circuitFile("bell.yaml"), "--circuit", "flip")
	require.NoError(t, err)

	want := "OPENQASM 2.0;\ninclude \"qelib1.inc\";\nqreg r[1];\nx r[0];\nbarrier r;\n"
	assert.Equal(t, want, out)
}

func TestQASMUnknownCircuit(t *testing.T) {
	out, err := execute(t, "qasm", circuitFile("bell.yaml"), "--circuit", "teleport")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
	assert.Contains(t, out, `"teleport"`)
}

func TestQASMJSON(t *testing.T) {
	out, err := execute(t, "qasm", circuitFile("bell.yaml"), "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	circuits := resp.Data.(map[string]any)["circuits"].([]any)
	require.Len(t, circuits, 2)

	first := circuits[0].(map[string]any)
	assert.Equal(t, "bell", first["name"])
	assert.Contains(t, first["qasm"], "cx q[0],q[1];")
	assert.Equal(t, "flip", circuits[1].(map[string]any)["name"])
}

func TestQASMRejectedCircuit(t *testing.T) {
	out, err := execute(t, "qasm", circuitFile("duplicate.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E006]")
	assert.Contains(t, out, "duplicate")
}

func TestQASMMalformedDescription(t *testing.T) {
	out, err := execute(t, "qasm", circuitFile("malformed.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestQASMMissingFile(t *testing.T) {
	out, err := execute(t, "qasm", circuitFile("nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}
