package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, "0.0.0.0:5200", c.Server.Addr)
	require.Equal(t, "./trainer.db", c.Database.Path)
	require.EqualValues(t, 1<<20, c.Protocol.MaxFrameSize)
	require.Equal(t, 10*time.Second, c.Protocol.CallTimeout)
	require.Equal(t, "info", c.Log.Level)
}

func TestFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("TRAINER_ADDR", "127.0.0.1:9999")
	t.Setenv("TRAINER_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("TRAINER_MAX_FRAME_SIZE", "4096")
	t.Setenv("TRAINER_CALL_TIMEOUT", "3s")
	t.Setenv("TRAINER_LOG_LEVEL", "debug")

	c := FromEnv()
	require.Equal(t, "127.0.0.1:9999", c.Server.Addr)
	require.Equal(t, "/tmp/other.db", c.Database.Path)
	require.EqualValues(t, 4096, c.Protocol.MaxFrameSize)
	require.Equal(t, 3*time.Second, c.Protocol.CallTimeout)
	require.Equal(t, "debug", c.Log.Level)
}

func TestFromEnvIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("TRAINER_MAX_FRAME_SIZE", "lots")
	t.Setenv("TRAINER_CALL_TIMEOUT", "soon")

	c := FromEnv()
	require.EqualValues(t, 1<<20, c.Protocol.MaxFrameSize)
	require.Equal(t, 10*time.Second, c.Protocol.CallTimeout)
}

func TestLoadFileOverridesEnv(t *testing.T) {
	t.Setenv("TRAINER_ADDR", "127.0.0.1:9999")
	path := filepath.Join(t.TempDir(), "trainer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"addr": "10.0.0.1:5300"},
		"protocol": {"call_timeout": "30s"}
	}`), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1:5300", c.Server.Addr)
	require.Equal(t, 30*time.Second, c.Protocol.CallTimeout)
	// Fields the file leaves out keep the env/default layer.
	require.Equal(t, "./trainer.db", c.Database.Path)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))
	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	for name, breakIt := range map[string]func(*Config){
		"empty addr":        func(c *Config) { c.Server.Addr = "" },
		"empty db path":     func(c *Config) { c.Database.Path = "" },
		"tiny frame size":   func(c *Config) { c.Protocol.MaxFrameSize = 512 },
		"zero call timeout": func(c *Config) { c.Protocol.CallTimeout = 0 },
		"empty log level":   func(c *Config) { c.Log.Level = "" },
		"nil protocol":      func(c *Config) { c.Protocol = nil },
	} {
		t.Run(name, func(t *testing.T) {
			c := Default()
			breakIt(c)
			require.Error(t, c.Validate())
		})
	}
}

func TestLoadWithoutFileUsesEnv(t *testing.T) {
	t.Setenv("TRAINER_LOG_LEVEL", "warn")
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "warn", c.Log.Level)
}
