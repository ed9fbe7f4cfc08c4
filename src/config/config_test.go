package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lost-woods/mulligan/src/config"
	"github.com/lost-woods/mulligan/src/mtg"
	"github.com/lost-woods/mulligan/src/rng"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "777", cfg.Port)
	assert.Equal(t, rng.SourceCrypto, cfg.Source)
	assert.Equal(t, 7, cfg.HandSize)
	assert.Equal(t, 10*time.Second, cfg.HealthInterval)
	assert.Equal(t, mtg.DefaultLandParams(), cfg.Land)
	assert.Empty(t, cfg.DeckFile)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := config.Load(env(map[string]string{
		"PORT":                    "8080",
		"API_KEY":                 "secret",
		"RNG_SOURCE":              "seeded",
		"RNG_SEED":                "1234",
		"RNG_HEALTH_INTERVAL":     "250",
		"DECK_FILE":               "decks/orzhov.yaml",
		"HAND_SIZE":               "8",
		"LAND_COLORLESS_DISCOUNT": "1.5",
		"LAND_TARGET_RATIO":       "0.75",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, rng.SourceSeeded, cfg.Source)
	assert.Equal(t, uint64(1234), cfg.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.HealthInterval)
	assert.Equal(t, "decks/orzhov.yaml", cfg.DeckFile)
	assert.Equal(t, 8, cfg.HandSize)
	assert.Equal(t, mtg.LandParams{ColorlessDiscount: 1.5, TargetRatio: 0.75}, cfg.Land)
}

func TestLoad_Serial(t *testing.T) {
	vars := map[string]string{
		"RNG_SOURCE":          "serial",
		"SERIAL_DEVICE_NAME":  "/dev/ttyACM0",
		"SERIAL_BAUD_RATE":    "9600",
		"SERIAL_READ_TIMEOUT": "500",
	}
	cfg, err := config.Load(env(vars))
	require.NoError(t, err)
	assert.Equal(t, rng.SerialConfig{Name: "/dev/ttyACM0", Baud: 9600, ReadTimeout: 500 * time.Millisecond}, cfg.Serial)

	delete(vars, "SERIAL_DEVICE_NAME")
	_, err = config.Load(env(vars))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []map[string]string{
		{"RNG_SEED": "-1"},
		{"RNG_HEALTH_INTERVAL": "0"},
		{"HAND_SIZE": "0"},
		{"HAND_SIZE": "seven"},
		{"LAND_COLORLESS_DISCOUNT": "-2"},
		{"LAND_TARGET_RATIO": "x"},
		{"RNG_SOURCE": "serial", "SERIAL_DEVICE_NAME": "COM3", "SERIAL_BAUD_RATE": "fast"},
	}
	for _, vars := range cases {
		_, err := config.Load(env(vars))
		assert.Error(t, err, "%v", vars)
	}
}
