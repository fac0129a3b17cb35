package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemasText(t *testing.T) {
	out, err := execute(t, "schemas")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0    QASM\n1.1.0    PULSE,QASM (latest)\n", out)
}

func TestSchemasJSON(t *testing.T) {
	out, err := execute(t, "schemas", "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	infos := resp.Data.([]any)
	require.Len(t, infos, 2)

	latest := infos[1].(map[string]any)
	assert.Equal(t, "1.1.0", latest["version"])
	assert.Equal(t, true, latest["latest"])
	assert.Equal(t, []any{"PULSE", "QASM"}, latest["kinds"])

	_, hasLatest := infos[0].(map[string]any)["latest"]
	assert.False(t, hasLatest)
}
