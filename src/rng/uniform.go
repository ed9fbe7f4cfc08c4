package rng

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const boundLimit = 1_000_000_000

// ErrSource is returned when the underlying entropy stream cannot be read.
var ErrSource = errors.New("error fetching random bytes")

// UniformInt32 returns a uniform integer in [min, max] inclusive.
// Integer-only rejection sampling (no floats). This is unbiased assuming the uint32 stream is uniform.
func UniformInt32(r io.Reader, h *Health, min int, max int) (int32, error) {
	if min < -boundLimit || min > boundLimit {
		return 0, errors.Errorf("the minimum value should be within ±%d", boundLimit)
	}
	if max < -boundLimit || max > boundLimit {
		return 0, errors.Errorf("the maximum value should be within ±%d", boundLimit)
	}
	if min > max {
		return 0, errors.New("the minimum value should be smaller than or equal to the maximum value")
	}

	rangeSize := uint32(max - min + 1)

	// limit = floor(2^32 / rangeSize) * rangeSize
	limit := (uint64(1) << 32) / uint64(rangeSize) * uint64(rangeSize)

	var buf [4]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if h != nil {
				h.Set(false, "error fetching random bytes: "+err.Error())
			}
			return 0, errors.Wrap(ErrSource, err.Error())
		}

		x := binary.BigEndian.Uint32(buf[:])
		if uint64(x) < limit {
			return int32(x%rangeSize) + int32(min), nil
		}
	}
}

// Intn returns a uniform integer in [0, n).
func Intn(r io.Reader, n int) (int, error) {
	if n <= 0 {
		return 0, errors.Errorf("invalid range size %d", n)
	}
	v, err := UniformInt32(r, nil, 0, n-1)
	return int(v), err
}

// Shuffle permutes n elements with Fisher-Yates, drawing every swap index from r.
// On a read error the elements already swapped stay swapped, so the sequence is
// still a permutation of its input.
func Shuffle(r io.Reader, n int, swap func(i, j int)) error {
	for i := n - 1; i > 0; i-- {
		j, err := Intn(r, i+1)
		if err != nil {
			return err
		}
		swap(i, j)
	}
	return nil
}
