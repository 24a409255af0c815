package rdbcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `{"input": {"path": "dump.rdb"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "text", cfg.Output.Format)
	require.Equal(t, "INFO", cfg.Log.Level)
	require.Equal(t, "logs", cfg.Log.Dir)
	require.Empty(t, cfg.Verify.Addr)
}

func TestLoadRejectsBadOutputFormat(t *testing.T) {
	path := writeTempConfig(t, `{"output": {"format": "xml"}}`)
	_, err := Load(path)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Errors[0], "output.format")
}

func TestLoadVerifyDefaults(t *testing.T) {
	path := writeTempConfig(t, `{"verify": {"addr": "127.0.0.1:6379"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1.0, cfg.Verify.SampleRate)
	require.Equal(t, 500, cfg.Verify.MaxOpsPerSec)
}

func TestLoadYAMLEquivalent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "input:\n  path: dump.rdb\noutput:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadYAML(path)
	require.NoError(t, err)
	require.Equal(t, "dump.rdb", cfg.Input.Path)
	require.Equal(t, "json", cfg.Output.Format)
}
