// Package detect implements the engagement anomaly engine: scan normalization,
// glitch correction, transition and window rules, verdict aggregation and run
// summarization. Everything here is a pure function of its input series.
package detect

import (
	"errors"
	"math"

	"github.com/huangsam/botscan/internal/contract"
)

// ErrInsufficientData is returned when a series has fewer than two valid scans.
var ErrInsufficientData = errors.New("insufficient data: need at least 2 valid scans")

// Logger receives errors the engine recovers from.
type Logger func(msg string, err error)

// ratioEpsilon guards every division in the rule library.
const ratioEpsilon = 1e-9

// ratio divides with the shared zero convention: 0/0 is 0, otherwise the
// denominator is floored at ratioEpsilon.
func ratio(num, den float64) float64 {
	if num == 0 && den == 0 {
		return 0
	}
	return num / math.Max(den, ratioEpsilon)
}

// factor divides by a denominator floored at 1, for jump factors on counters.
func factor(num, den int64) float64 {
	return float64(num) / math.Max(float64(den), 1)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// defaultLogger reports recovered errors on stderr.
var defaultLogger Logger = contract.LogWarn
