package mtg

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const maxPercentDecimals = 7

// ParseProbability parses a percentage such as "57.142857" or "57.142857%"
// into a probability strictly between 0 and 1.
//
// The digits are validated and scaled as integers so "40" and "40.0000" give
// exactly the same float. At most 7 decimal places are accepted.
func ParseProbability(percent string) (float64, error) {
	s := strings.TrimSpace(percent)
	if v, ok := strings.CutSuffix(s, "%"); ok {
		s = strings.TrimSpace(v)
	}
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, errors.Wrap(ErrDomain, "percent is empty")
	}
	if strings.HasPrefix(s, "-") {
		return 0, errors.Wrapf(ErrDomain, "percent %q is negative", percent)
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if !digitsOnly(intPart) || !digitsOnly(fracPart) {
		return 0, errors.Wrapf(ErrDomain, "invalid percent %q", percent)
	}

	fracPart = strings.TrimRight(fracPart, "0")
	if len(fracPart) > maxPercentDecimals {
		return 0, errors.Wrapf(ErrDomain, "percent %q has more than %d decimal places", percent, maxPercentDecimals)
	}

	digits := strings.TrimLeft(intPart+fracPart, "0")
	if digits == "" {
		digits = "0"
	}
	num, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrDomain, "percent %q is too large", percent)
	}

	den := int64(100)
	for i := 0; i < len(fracPart); i++ {
		den *= 10
	}
	if num <= 0 || num >= den {
		return 0, errors.Wrapf(ErrDomain, "percent %q must be between 0 and 100 exclusive", percent)
	}
	return float64(num) / float64(den), nil
}

func digitsOnly(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
