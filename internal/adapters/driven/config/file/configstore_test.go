package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[api]
base_url = "http://backend:9000"
timeout_seconds = 15

[map]
vworld_key = "FILE-KEY"

[display]
strict_columns = true
`

const limitsConfig = `
[api]
requests_per_second = 2
cache_ttl_seconds = 300
`

// newTestStore creates a store over dir with a fake environment.
func newTestStore(t *testing.T, dir string, env map[string]string) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	store.lookup = func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	return store
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600))
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFileName), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".aptview", ConfigFileName), store.Path())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "[api\nbase_url = ")

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_Defaults(t *testing.T) {
	store := newTestStore(t, t.TempDir(), nil)

	assert.Equal(t, DefaultBaseURL, BaseURL(store))
	assert.Equal(t, DefaultTimeout, Timeout(store))
	assert.Empty(t, VWorldKey(store))
	assert.False(t, StrictColumns(store))

	_, ok := store.Get(KeyBaseURL)
	assert.False(t, ok)
}

func TestConfigStore_FileValues(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, sampleConfig)
	store := newTestStore(t, tmpDir, nil)

	assert.Equal(t, "http://backend:9000", BaseURL(store))
	assert.Equal(t, 15*time.Second, Timeout(store))
	assert.Equal(t, "FILE-KEY", VWorldKey(store))
	assert.True(t, StrictColumns(store))
	assert.Equal(t, "15", store.GetString(KeyTimeout))
}

func TestConfigStore_EnvironmentWins(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, sampleConfig)
	store := newTestStore(t, tmpDir, map[string]string{
		EnvBaseURL:       "http://env:8000",
		EnvTimeout:       "5",
		EnvVWorldKey:     " ENV-KEY ",
		EnvStrictColumns: "false",
	})

	assert.Equal(t, "http://env:8000", BaseURL(store))
	assert.Equal(t, 5*time.Second, Timeout(store))
	assert.Equal(t, "ENV-KEY", VWorldKey(store))
	assert.False(t, StrictColumns(store))
}

func TestConfigStore_Limits(t *testing.T) {
	store := newTestStore(t, t.TempDir(), nil)
	assert.Zero(t, RateLimit(store))
	assert.Zero(t, CacheTTL(store))

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, limitsConfig)
	store = newTestStore(t, tmpDir, nil)
	assert.Equal(t, 2.0, RateLimit(store))
	assert.Equal(t, 5*time.Minute, CacheTTL(store))

	store = newTestStore(t, tmpDir, map[string]string{EnvRateLimit: "-1", EnvCacheTTL: "-5"})
	assert.Equal(t, -1.0, RateLimit(store))
	assert.Equal(t, time.Duration(-1), CacheTTL(store))
}

func TestConfigStore_BlankEnvironmentIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, sampleConfig)
	store := newTestStore(t, tmpDir, map[string]string{EnvVWorldKey: "  "})

	assert.Equal(t, "FILE-KEY", VWorldKey(store))
}

func TestConfigStore_BadValuesFallBack(t *testing.T) {
	store := newTestStore(t, t.TempDir(), map[string]string{
		EnvTimeout:       "soon",
		EnvStrictColumns: "maybe",
	})

	assert.Equal(t, DefaultTimeout, Timeout(store))
	assert.False(t, StrictColumns(store))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	store := newTestStore(t, tmpDir, nil)
	assert.Empty(t, VWorldKey(store))

	writeConfig(t, tmpDir, sampleConfig)
	require.NoError(t, store.Load())
	assert.Equal(t, "FILE-KEY", VWorldKey(store))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, store.Load())
	assert.Empty(t, VWorldKey(store))
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"a": map[string]any{"b": int64(1), "c": map[string]any{"d": "x"}},
		"e": true,
	}, "")

	assert.Equal(t, map[string]any{"a.b": int64(1), "a.c.d": "x", "e": true}, flat)
}

func TestHandleFsEvent(t *testing.T) {
	tmpDir := t.TempDir()
	store := newTestStore(t, tmpDir, nil)
	other := filepath.Join(tmpDir, "other.toml")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: store.Path(), Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: store.Path(), Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: store.Path(), Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: store.Path(), Op: fsnotify.Rename}, true},
		{"write and chmod", fsnotify.Event{Name: store.Path(), Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: store.Path(), Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: other, Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.handleFsEvent(tt.event))
		})
	}
}

func TestConfigStore_Watch(t *testing.T) {
	tmpDir := t.TempDir()
	store := newTestStore(t, tmpDir, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register before writing.
	require.Eventually(t, func() bool {
		writeConfig(t, tmpDir, sampleConfig)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, "FILE-KEY", VWorldKey(store))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, LoadDotEnv(tmpDir))

	const name = "APTVIEW_TEST_DOTENV"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(name+"=from-file\n"), 0600))
	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))

	require.NoError(t, LoadDotEnv(tmpDir))
	assert.Equal(t, "from-file", os.Getenv(name))
}

func TestLoadDotEnv_ExistingWins(t *testing.T) {
	tmpDir := t.TempDir()
	const name = "APTVIEW_TEST_DOTENV_KEEP"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(name+"=from-file\n"), 0600))
	t.Setenv(name, "from-env")

	require.NoError(t, LoadDotEnv(tmpDir))
	assert.Equal(t, "from-env", os.Getenv(name))
}
