package diaglog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shotlog.log")

	first, err := Open(Options{Path: path})
	require.NoError(t, err)
	first.Info("session started", "id", "one")
	require.NoError(t, first.Close())

	second, err := Open(Options{Path: path})
	require.NoError(t, err)
	second.Error("save failed", "id", "two")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id=one")
	assert.Contains(t, string(data), "id=two")
	assert.Contains(t, string(data), "level=ERROR")
}

func TestOpen_VerboseTeesToStderr(t *testing.T) {
	var stderr bytes.Buffer
	log, err := Open(Options{Verbose: true, Stderr: &stderr})
	require.NoError(t, err)
	log.Debug("trigger received")
	require.NoError(t, log.Close())

	assert.Contains(t, stderr.String(), "trigger received")
}

func TestOpen_QuietWithoutSinks(t *testing.T) {
	log, err := Open(Options{})
	require.NoError(t, err)
	log.Info("dropped")
	assert.NoError(t, log.Close())
	Discard().Info("dropped too")
}
