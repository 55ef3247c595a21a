package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFileAtomic(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "export.json")
	err := os.WriteFile(filePath, []byte("old"), 0o644)
	assert.NoError(t, err)

	// WHEN
	err = WriteFileAtomic(filePath, []byte("new content"))

	// THEN
	assert.NoError(t, err)
	content, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "new content", string(content))
}

func TestWriteFileAtomic_NewFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "new.json")

	// WHEN
	err := WriteFileAtomic(filePath, []byte("[]"))

	// THEN
	assert.NoError(t, err)
	content, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(content))
}

func TestReadFloats(t *testing.T) {
	// GIVEN
	input := `# cte recorded on lap 1
0.7598

-0.25
  1e-3
`

	// WHEN
	result, err := ReadFloats(strings.NewReader(input))

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.7598, -0.25, 0.001}, result)
}

func TestReadFloats_Invalid(t *testing.T) {
	// GIVEN
	input := "0.5\nabc\n"

	// WHEN
	_, err := ReadFloats(strings.NewReader(input))

	// THEN
	assert.ErrorContains(t, err, "line 2")
}

func TestReadFloatsFromFile_Missing(t *testing.T) {
	// WHEN
	_, err := ReadFloatsFromFile(filepath.Join(t.TempDir(), "missing.txt"))

	// THEN
	assert.Error(t, err)
}
