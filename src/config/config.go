package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lost-woods/mulligan/src/mtg"
	"github.com/lost-woods/mulligan/src/rng"
)

type Config struct {
	Port   string
	APIKey string

	// Source is one of rng.SourceCrypto, rng.SourceSeeded or rng.SourceSerial.
	Source         string
	Seed           uint64
	Serial         rng.SerialConfig
	HealthInterval time.Duration

	// DeckFile is empty for the built-in deck list.
	DeckFile string
	HandSize int
	Land     mtg.LandParams
}

func Default() Config {
	return Config{
		Port:           "777",
		Source:         rng.SourceCrypto,
		HealthInterval: 10 * time.Second,
		HandSize:       7,
		Land:           mtg.DefaultLandParams(),
	}
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load reads every setting through getenv. Unset variables keep their defaults.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("PORT"); v != "" {
		cfg.Port = v
	}
	cfg.APIKey = getenv("API_KEY")
	cfg.DeckFile = getenv("DECK_FILE")

	if v := getenv("RNG_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := getenv("RNG_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid RNG_SEED %q: %w", v, err)
		}
		cfg.Seed = seed
	}
	if v := getenv("RNG_HEALTH_INTERVAL"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return cfg, fmt.Errorf("invalid RNG_HEALTH_INTERVAL: %q", v)
		}
		cfg.HealthInterval = time.Duration(ms) * time.Millisecond
	}

	if cfg.Source == rng.SourceSerial {
		serial, err := loadSerial(getenv)
		if err != nil {
			return cfg, err
		}
		cfg.Serial = serial
	}

	if v := getenv("HAND_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid HAND_SIZE: %q", v)
		}
		cfg.HandSize = n
	}
	if v := getenv("LAND_COLORLESS_DISCOUNT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return cfg, fmt.Errorf("invalid LAND_COLORLESS_DISCOUNT: %q", v)
		}
		cfg.Land.ColorlessDiscount = f
	}
	if v := getenv("LAND_TARGET_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return cfg, fmt.Errorf("invalid LAND_TARGET_RATIO: %q", v)
		}
		cfg.Land.TargetRatio = f
	}

	return cfg, nil
}

// loadSerial reads SERIAL_DEVICE_NAME, SERIAL_BAUD_RATE and
// SERIAL_READ_TIMEOUT (milliseconds).
func loadSerial(getenv func(string) string) (rng.SerialConfig, error) {
	name := getenv("SERIAL_DEVICE_NAME")
	if name == "" {
		return rng.SerialConfig{}, fmt.Errorf("SERIAL_DEVICE_NAME is required")
	}

	baudStr := getenv("SERIAL_BAUD_RATE")
	baud, err := strconv.Atoi(baudStr)
	if err != nil || baud <= 0 {
		return rng.SerialConfig{}, fmt.Errorf("invalid SERIAL_BAUD_RATE: %q", baudStr)
	}

	timeoutStr := getenv("SERIAL_READ_TIMEOUT")
	timeoutMs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutMs < 0 {
		return rng.SerialConfig{}, fmt.Errorf("invalid SERIAL_READ_TIMEOUT: %q", timeoutStr)
	}

	return rng.SerialConfig{
		Name:        name,
		Baud:        baud,
		ReadTimeout: time.Duration(timeoutMs) * time.Millisecond,
	}, nil
}
