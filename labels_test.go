package sortlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLabels(t *testing.T) {

	path := filepath.Join(t.TempDir(), "coco.txt")
	require.NoError(t, os.WriteFile(path, []byte("person\nbicycle\n car \nmotorcycle\n"), 0o600))

	labels, err := LoadLabels(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"person", "bicycle", "car", "motorcycle"}, labels)

	_, err = LoadLabels(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLabelFilter(t *testing.T) {

	labels := []string{"person", "bicycle", "car", "motorcycle", "airplane", "bus"}

	lf, err := NewLabelFilter(labels, "car", "motorcycle", "bus")
	require.NoError(t, err)

	assert.True(t, lf.Keep(2))
	assert.True(t, lf.Keep(5))
	assert.False(t, lf.Keep(0))

	all, err := NewLabelFilter(labels)
	require.NoError(t, err)
	assert.True(t, all.Keep(0))

	_, err = NewLabelFilter(labels, "truck")
	assert.Error(t, err)
}
