package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/timevault/internal/flagx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubConfigDir(t *testing.T, dir string, err error) {
	t.Helper()
	orig := userConfigDir
	userConfigDir = func() (string, error) { return dir, err }
	t.Cleanup(func() { userConfigDir = orig })
}

func TestLoadDefaults_ProfileUnderUserConfigDir(t *testing.T) {
	stubConfigDir(t, "/home/me/.config", nil)

	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, filepath.Join("/home/me/.config", "timevault", "profile.db"), c.ProfilePath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.NoError(t, c.Validate())
}

func TestLoadDefaults_NoUserConfigDir(t *testing.T) {
	stubConfigDir(t, "", errors.New("$HOME is not defined"))

	var c Config
	c.LoadDefaults()
	assert.Equal(t, "timevault.db", c.ProfilePath)
}

func TestLoadConfig_FlagsOverDefaults(t *testing.T) {
	stubConfigDir(t, "/cfg", nil)
	t.Setenv(flagx.ConfigEnv, "")
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"timevault", "-t", "2s"}

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
	assert.Equal(t, filepath.Join("/cfg", "timevault", "profile.db"), cfg.ProfilePath)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no port", func(c *Config) { c.ServerEndpointAddr = "localhost" }, `server address "localhost"`},
		{"no profile", func(c *Config) { c.ProfilePath = "" }, "profile path"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "request timeout"},
		{"negative interval", func(c *Config) { c.OnlineCheckInterval = -time.Second }, "online check interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{ServerEndpointAddr: "vault:50051", ProfilePath: "p.db", RequestTimeout: time.Second}
			require.NoError(t, c.Validate())
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}
