package logforge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFile_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "f.log")
	h, err := openFile(path, false)
	require.NoError(t, err)
	defer h.Close()

	_, statErr := os.Stat(filepath.Dir(path))
	assert.NoError(t, statErr)
}

func TestFileHandle_WriteTracksSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.log")
	h, err := openFile(path, false)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Write([]byte("hello")))
	assert.EqualValues(t, 5, h.Size())
	require.NoError(t, h.Write([]byte("!!")))
	assert.EqualValues(t, 7, h.Size())
}

func TestFileHandle_AppendPreservesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	h, err := openFile(path, false)
	require.NoError(t, err)
	require.NoError(t, h.Write([]byte("new\n")))
	require.NoError(t, h.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nnew\n", string(data))
}

func TestFileHandle_TruncateDiscardsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	h, err := openFile(path, true)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "", string(data))
}

func TestFileHandle_ReopenResetsSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.log")
	h, err := openFile(path, false)
	require.NoError(t, err)
	require.NoError(t, h.Write([]byte("12345")))
	require.NoError(t, h.Flush())

	require.NoError(t, h.Reopen(false))
	assert.EqualValues(t, 0, h.Size())
	require.NoError(t, h.Close())
}

func TestFileHandle_WriteAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.log")
	h, err := openFile(path, false)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	err = h.Write([]byte("x"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
}

func TestRenameWithLock_MovesFileAndOverwritesTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.log")
	target := filepath.Join(dir, "target.log")

	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0o644))

	require.NoError(t, renameWithLock(src, target))

	_, statErr := os.Stat(src)
	assert.True(t, os.IsNotExist(statErr))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
