package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notiq/internal/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, 5, cfg.Display.MaxVisible)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Normal.Duration())
	assert.Equal(t, time.Duration(0), cfg.Timeouts.Critical.Duration())
	assert.True(t, cfg.Behavior.StackDuplicates)
	assert.Equal(t, 100, cfg.History.Length)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notiqd.toml")
	content := `
[display]
max_visible = 3

[timeouts]
low = "2s"
normal = 8000

[history]
skip_reasons = ["replaced", "rule"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Display.MaxVisible)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Low.Duration())
	// Integer values parse as milliseconds
	assert.Equal(t, 8*time.Second, cfg.Timeouts.Normal.Duration())
	// Untouched fields keep defaults
	assert.True(t, cfg.Behavior.StackDuplicates)
	assert.Equal(t, []string{"replaced", "rule"}, cfg.History.SkipReasons)
}

func TestLoad_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notiqd.toml")
	require.NoError(t, os.WriteFile(path, []byte("display = [broken"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("negative max_visible", func(t *testing.T) {
		cfg := Default()
		cfg.Display.MaxVisible = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative history length", func(t *testing.T) {
		cfg := Default()
		cfg.History.Length = -5
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative timeout", func(t *testing.T) {
		cfg := Default()
		cfg.Timeouts.Low = Duration(-time.Second)
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero max_visible is unlimited", func(t *testing.T) {
		cfg := Default()
		cfg.Display.MaxVisible = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestTimeoutForUrgency(t *testing.T) {
	cfg := Default()
	cfg.Timeouts.Low = Duration(time.Second)
	cfg.Timeouts.Normal = Duration(2 * time.Second)
	cfg.Timeouts.Critical = Duration(0)

	assert.Equal(t, time.Second, cfg.TimeoutForUrgency(model.UrgencyLow))
	assert.Equal(t, 2*time.Second, cfg.TimeoutForUrgency(model.UrgencyNormal))
	assert.Equal(t, time.Duration(0), cfg.TimeoutForUrgency(model.UrgencyCritical))
	// Unknown urgency falls back to normal
	assert.Equal(t, 2*time.Second, cfg.TimeoutForUrgency(42))
}

func TestSkipsHistory(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.SkipsHistory("replaced"))
	assert.False(t, cfg.SkipsHistory("expired"))
	assert.False(t, cfg.SkipsHistory("dismissed"))
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration

	require.NoError(t, d.UnmarshalText([]byte("1h30m")))
	assert.Equal(t, 90*time.Minute, d.Duration())

	require.NoError(t, d.UnmarshalText([]byte("250")))
	assert.Equal(t, 250*time.Millisecond, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
