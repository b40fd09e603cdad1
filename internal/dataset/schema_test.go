package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWineSchema(t *testing.T) {
	schema := WineSchema()

	assert.Equal(t, 11, schema.NumFeatures())
	assert.Equal(t, "quality", schema.Label)
	assert.Equal(t, DefaultCutoff, schema.Cutoff)
}

func TestLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := `features:
  - a
  - b
label: score
cutoff: 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	schema, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, schema.Features)
	assert.Equal(t, "score", schema.Label)
	assert.Equal(t, 6, schema.Cutoff)
}

func TestLoadSchemaDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cutoff: 6\n"), 0644))

	schema, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, WineSchema().Features, schema.Features)
	assert.Equal(t, "quality", schema.Label)
	assert.Equal(t, 6, schema.Cutoff)
}

func TestLoadSchemaMissingFile(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
