package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"NODE_ID", "BACKEND", "KEY_PREFIX", "REDIS_ADDR", "REDIS_DB", "RAFT_ADDR",
	"RAFT_DATA", "RAFT_BOOTSTRAP", "GRPC_ADDR", "HTTP_ADDR", "LOG_LEVEL", "LOG_JSON",
}

// clearEnv blanks every variable LoadConfig reads, restoring them afterwards.
// It also moves into an empty directory so no stray .env file is picked up.
func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":8080")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "solar", cfg.KeyPrefix)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadConfig_YAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
node_id: node1
backend: raft
raft_addr: 127.0.0.1:7001
raft_bootstrap: true
grpc_addr: :9090
key_prefix: prod
`)
	t.Setenv("KEY_PREFIX", "staging")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "node1", cfg.NodeID)
	assert.Equal(t, BackendRaft, cfg.Backend)
	assert.True(t, cfg.RaftBootstrap)
	assert.Equal(t, "./solar/node1", cfg.RaftData)
	assert.Equal(t, "staging", cfg.KeyPrefix)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	for _, k := range envKeys {
		require.NoError(t, os.Unsetenv(k))
	}
	require.NoError(t, os.WriteFile(".env", []byte("BACKEND=redis\nREDIS_ADDR=localhost:6379\nGRPC_ADDR=:9090\n"), 0o644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		path string
	}{
		{name: "missing file", path: "/nonexistent/config.yaml"},
		{name: "no listener", env: map[string]string{"BACKEND": "memory"}},
		{name: "unknown backend", env: map[string]string{"BACKEND": "etcd", "HTTP_ADDR": ":8080"}},
		{name: "redis without addr", env: map[string]string{"BACKEND": "redis", "HTTP_ADDR": ":8080"}},
		{name: "raft without node id", env: map[string]string{"BACKEND": "raft", "RAFT_ADDR": ":7001", "HTTP_ADDR": ":8080"}},
		{name: "bad redis db", env: map[string]string{"REDIS_DB": "zero", "HTTP_ADDR": ":8080"}},
		{name: "bad bootstrap flag", env: map[string]string{"RAFT_BOOTSTRAP": "maybe", "HTTP_ADDR": ":8080"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(tt.path)
			assert.Error(t, err)
		})
	}
}
