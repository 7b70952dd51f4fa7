package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_InstallsGlobal(t *testing.T) {
	l, err := Init("development", "")
	require.NoError(t, err)
	assert.Same(t, l, zap.L())
}

func TestInit_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web.log")

	l, err := Init("production", path)
	require.NoError(t, err)
	l.Info("hello", zap.String("k", "v"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}
