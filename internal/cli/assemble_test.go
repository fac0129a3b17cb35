package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qobj/internal/archive"
)

func TestAssembleText(t *testing.T) {
	out, err := execute(t, "assemble", circuitFile("bell.yaml"))
	require.NoError(t, err)
	newGoldie(t).Assert(t, "assemble_bell", []byte(out))
}

func TestAssembleJSON(t *testing.T) {
	out, err := execute(t, "assemble", circuitFile("bell.yaml"), "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "QASM", data["type"])
	assert.Equal(t, "bell-run", data["qobj_id"])
	assert.Len(t, data["experiments"], 2)
}

func TestAssembleFlagsOverrideRun(t *testing.T) {
	out, err := execute(t, "assemble", circuitFile("bell.yaml"),
		"--format", "json", "--qobj-id", "override", "--shots", "10", "--backend", "statevector")
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, "override", data["qobj_id"])
	assert.Equal(t, float64(10), data["config"].(map[string]any)["shots"])
	assert.Equal(t, "statevector", data["header"].(map[string]any)["backend_name"])
}

func TestAssembleWithoutBackend(t *testing.T) {
	path := circuitFile("no_backend.yaml")

	out, err := execute(t, "assemble", path)
	require.Error(t, err, "latest schema requires header.backend_name")
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "header.backend_name")

	_, err = execute(t, "assemble", path, "--schema-version", "1.0.0")
	require.NoError(t, err)

	_, err = execute(t, "assemble", path, "--backend", "qasm_simulator")
	require.NoError(t, err)

	out, err = execute(t, "assemble", path, "--no-validate")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n"))
}

func TestAssembleStampsSchemaVersion(t *testing.T) {
	out, err := execute(t, "assemble", circuitFile("no_backend.yaml"),
		"--schema-version", "1.0.0", "--format", "json")
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, "1.0.0", data["schema_version"])
}

func TestAssembleRejectedCircuit(t *testing.T) {
	_, err := execute(t, "assemble", circuitFile("duplicate.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeBuildFailed)
}

func TestAssembleArchive(t *testing.T) {
	db := filepath.Join(t.TempDir(), "payloads.db")

	assembled, err := execute(t, "assemble", circuitFile("bell.yaml"), "--archive", db)
	require.NoError(t, err)

	listed, err := execute(t, "archive", "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	payloads := decodeResponse(t, listed).Data.(map[string]any)["payloads"].([]any)
	require.Len(t, payloads, 1)

	entry := payloads[0].(map[string]any)
	assert.Equal(t, "bell-run", entry["qobj_id"])
	assert.Equal(t, "QASM", entry["kind"])
	assert.Equal(t, float64(1), entry["seq"])

	id := entry["id"].(string)
	assert.Len(t, id, 64)

	shown, err := execute(t, "archive", "show", id, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, assembled, shown, "stored payload round-trips to the same canonical text")
}

func TestAssembleArchiveIsIdempotent(t *testing.T) {
	db := filepath.Join(t.TempDir(), "payloads.db")

	for i := 0; i < 3; i++ {
		_, err := execute(t, "assemble", circuitFile("bell.yaml"), "--archive", db)
		require.NoError(t, err)
	}

	a, err := archive.Open(db)
	require.NoError(t, err)
	defer a.Close()

	records, err := a.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
