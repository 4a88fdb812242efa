package tracker

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefaultConfig(t *testing.T) {

	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.MaxAge)
	assert.Equal(t, 3, cfg.MinHits)
	assert.Equal(t, 0.3, cfg.IOUThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"negative max age", func(c *Config) { c.MaxAge = -1 }},
		{"negative min hits", func(c *Config) { c.MinHits = -2 }},
		{"threshold above one", func(c *Config) { c.IOUThreshold = 1.01 }},
		{"threshold negative", func(c *Config) { c.IOUThreshold = -0.1 }},
		{"unknown solver", func(c *Config) { c.Solver = "auction" }},
		{"bad kalman", func(c *Config) {
			kc := DefaultKalmanConfig()
			kc.InitialCov = []float64{1}
			c.Kalman = &kc
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {

	path := writeConfig(t, "sort.json", `{"max_age": 5, "solver": "munkres"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxAge)
	assert.Equal(t, SolverMunkres, cfg.Solver)
	// omitted fields keep their defaults
	assert.Equal(t, 3, cfg.MinHits)
	assert.Equal(t, 0.3, cfg.IOUThreshold)
	assert.Nil(t, cfg.Kalman)
}

func TestLoadConfigKalman(t *testing.T) {

	path := writeConfig(t, "sort.json", `{
		"kalman": {
			"initial_cov": [10, 10, 10, 10, 1000, 1000, 1000],
			"process_noise": [1, 1, 1, 1, 0.01, 0.01, 0.001],
			"measurement_noise": [1, 1, 10, 10]
		}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Kalman)

	assert.Equal(t, 1000.0, cfg.Kalman.InitialCov[4])
	assert.Equal(t, 0.001, cfg.kalmanConfig().ProcessNoise[6])
}

func TestLoadConfigErrors(t *testing.T) {

	_, err := LoadConfig(writeConfig(t, "sort.yaml", `max_age: 1`))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "bad.json", `{"max_age": `))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "invalid.json", `{"iou_threshold": 2}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestIDGenerator(t *testing.T) {

	g := NewIDGenerator()
	assert.Equal(t, int64(0), g.Last())

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Next()
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(50), g.Last())
	assert.Equal(t, int64(51), g.Next())
}
