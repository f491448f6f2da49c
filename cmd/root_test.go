package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolateEnv points config discovery at empty temp dirs and strips any
// BIO_MCP_* variables from the environment for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "BIO_MCP_") {
			continue
		}
		key := kv[:strings.IndexByte(kv, '=')]
		value := os.Getenv(key)
		os.Unsetenv(key)
		t.Cleanup(func() { os.Setenv(key, value) })
	}
}

// captureOutput replaces printInfo and collects printed messages.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	original := printInfo
	var lines []string
	printInfo = func(msg string) {
		lines = append(lines, msg)
	}
	t.Cleanup(func() { printInfo = original })
	return &lines
}

// setConfigFlag overrides the --config flag value for the test.
func setConfigFlag(t *testing.T, path string) {
	t.Helper()
	original := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = original })
}

func TestLoadSettings_Defaults(t *testing.T) {
	isolateEnv(t)

	settings, cleanup, err := loadSettings()

	require.NoError(t, err)
	defer cleanup()
	require.Equal(t, "seqkit", settings.SeqKitPath)
	require.Equal(t, 600*time.Second, settings.Timeout)
	require.Empty(t, settings.ConfigFile)
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	isolateEnv(t)
	t.Setenv("BIO_MCP_SEQKIT_PATH", "/opt/bio/seqkit")

	settings, cleanup, err := loadSettings()

	require.NoError(t, err)
	defer cleanup()
	require.Equal(t, "/opt/bio/seqkit", settings.SeqKitPath)
}

func TestLoadSettings_InitializesLogSink(t *testing.T) {
	isolateEnv(t)
	logPath := filepath.Join(t.TempDir(), "server.log")
	t.Setenv("BIO_MCP_LOG_FILE", logPath)

	_, cleanup, err := loadSettings()

	require.NoError(t, err)
	cleanup()
	_, statErr := os.Stat(logPath)
	require.NoError(t, statErr, "log sink is created eagerly")
}

func TestVersionCommand(t *testing.T) {
	lines := captureOutput(t)

	versionCmd.Run(versionCmd, nil)

	require.Equal(t, []string{"bio-mcp-seqkit dev"}, *lines)
}
