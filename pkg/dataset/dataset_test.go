package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDescriptorFile(t *testing.T, records int) string {
	t.Helper()
	buf := make([]byte, records*DescriptorSize)
	for r := 0; r < records; r++ {
		for i := 0; i < DescriptorSize; i++ {
			buf[r*DescriptorSize+i] = byte(r + i)
		}
	}
	path := filepath.Join(t.TempDir(), "descriptors")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestReadDescriptors(t *testing.T) {
	path := writeDescriptorFile(t, 3)

	keys, err := ReadDescriptors(path, 2)
	require.NoError(t, err)
	require.Len(t, keys, 2)

	// Only the first 32 bytes of each record become the key.
	assert.Equal(t, byte(0), keys[0][0])
	assert.Equal(t, byte(31), keys[0][31])
	assert.Equal(t, byte(1), keys[1][0])
}

func TestReadDescriptorsShortFile(t *testing.T) {
	path := writeDescriptorFile(t, 2)

	_, err := ReadDescriptors(path, 5)
	assert.Error(t, err)
}

func TestReadDescriptorsMissingFile(t *testing.T) {
	_, err := ReadDescriptors(filepath.Join(t.TempDir(), "nope"), 1)
	assert.Error(t, err)
}
