package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// Source kinds accepted by Open.
const (
	SourceCrypto = "crypto"
	SourceSeeded = "seeded"
	SourceSerial = "serial"
)

// SerialConfig describes a USB/serial hardware entropy device.
type SerialConfig struct {
	Name        string
	Baud        int
	ReadTimeout time.Duration
}

// NewSeeded returns a deterministic stream for reproducible shuffles.
// Equal seeds always yield equal byte streams.
func NewSeeded(seed uint64) io.Reader {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return rand.NewChaCha8(key)
}

// NewCrypto returns the operating system's entropy source.
func NewCrypto() io.Reader { return crand.Reader }

// NewSerial opens a serial entropy device and performs an initial health check.
func NewSerial(cfg SerialConfig) (io.Reader, *Health, error) {
	if cfg.Name == "" {
		return nil, nil, errors.New("serial device name is required")
	}
	if cfg.Baud <= 0 {
		return nil, nil, errors.Errorf("invalid serial baud rate %d", cfg.Baud)
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		Size:        8,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open serial device %s", cfg.Name)
	}

	h := NewHealth()
	if err := acceptDevice(p, h); err != nil {
		return nil, h, errors.Wrapf(err, "serial device %s", cfg.Name)
	}
	return p, h, nil
}

// acceptDevice runs the first health check on a freshly opened device and
// closes it when the check fails.
func acceptDevice(dev io.ReadCloser, h *Health) error {
	if err := HealthCheck(dev, h); err != nil {
		h.Set(false, err.Error())
		dev.Close()
		return err
	}
	h.Set(true, "")
	return nil
}

// Open builds the named source. Software sources are reported healthy
// immediately; only the serial device is sampled.
func Open(kind string, seed uint64, cfg SerialConfig) (io.Reader, *Health, error) {
	switch kind {
	case SourceSerial:
		return NewSerial(cfg)
	case SourceSeeded:
		h := NewHealth()
		h.Set(true, "")
		return NewSeeded(seed), h, nil
	case SourceCrypto, "":
		h := NewHealth()
		h.Set(true, "")
		return NewCrypto(), h, nil
	default:
		return nil, nil, errors.Errorf("unknown entropy source %q", kind)
	}
}
