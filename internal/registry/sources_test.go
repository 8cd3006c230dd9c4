package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fracfocus/internal/errors"
)

func writeParts(t *testing.T, parts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range parts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
	}
	return dir
}

func names(files []SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestDiscover(t *testing.T) {
	dir := writeParts(t, map[string]string{
		"FracFocusRegistry_10.csv": "StateName\nTexas\n",
		"FracFocusRegistry_2.csv":  "StateName\nTexas\n",
		"FracFocusRegistry_1.csv":  "StateName\nTexas\n",
		"readme.txt":               "not a part",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

	t.Run("directory", func(t *testing.T) {
		files, err := Discover(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"FracFocusRegistry_1.csv", "FracFocusRegistry_2.csv", "FracFocusRegistry_10.csv"}, names(files))
	})

	t.Run("glob", func(t *testing.T) {
		files, err := Discover(filepath.Join(dir, "FracFocusRegistry_1*.csv"))
		require.NoError(t, err)
		assert.Equal(t, []string{"FracFocusRegistry_1.csv", "FracFocusRegistry_10.csv"}, names(files))
	})

	t.Run("single file", func(t *testing.T) {
		files, err := Discover(filepath.Join(dir, "readme.txt"))
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, int64(len("not a part")), files[0].Size)
	})

	t.Run("glob without matches", func(t *testing.T) {
		_, err := Discover(filepath.Join(dir, "*.psv"))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInput))
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := Discover(t.TempDir())
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInput))
	})
}

func TestPartNumber(t *testing.T) {
	prefix, n := partNumber("FracFocusRegistry_12.csv")
	assert.Equal(t, "FracFocusRegistry_", prefix)
	assert.Equal(t, 12, n)

	prefix, n = partNumber("registry.csv")
	assert.Equal(t, "registry", prefix)
	assert.Equal(t, -1, n)
}

func TestLoad_Parts(t *testing.T) {
	t.Run("parts are concatenated in order", func(t *testing.T) {
		dir := writeParts(t, map[string]string{
			"FracFocusRegistry_2.csv": "StateName,CountyName\nTexas,Crane\n",
			"FracFocusRegistry_1.csv": "StateName,CountyName\nTexas,Andrews\nTexas,Ector\n",
		})
		reg, err := Load(dir, Options{})
		require.NoError(t, err)
		assert.Equal(t, 3, reg.Rows())
		assert.Equal(t, dir, reg.Source)
		assert.Len(t, reg.Files, 2)
		assert.Equal(t, []string{"Andrews", "Ector", "Crane"}, column(t, reg.Frame, "CountyName"))
	})

	t.Run("mismatched header", func(t *testing.T) {
		dir := writeParts(t, map[string]string{
			"part_1.csv": "StateName,CountyName\nTexas,Andrews\n",
			"part_2.csv": "StateName,County\nTexas,Crane\n",
		})
		_, err := Load(dir, Options{})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})
}
