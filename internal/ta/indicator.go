package ta

import (
	"math"

	"invest-tracker/internal/dto"

	"github.com/markcheno/go-talib"
)

// Standard stochastic parameters: 14-period lookback with 3-period SMA
// smoothing for both %K and %D.
const (
	stochLookback = 14
	stochSmoothK  = 3
	stochSmoothD  = 3
)

// StochPoint is one {%K, %D} pair aligned to the input series index.
// Values may be NaN when the underlying window had no information at all.
type StochPoint struct {
	K float64
	D float64
}

// Oscillator computes stochastic values over an already-resampled series.
type Oscillator interface {
	Stochastic(series dto.PriceSeries) []StochPoint
}

// StochOscillator computes the slow stochastic oscillator via TA-Lib.
type StochOscillator struct{}

// Stochastic returns one point per input bar. NaN inputs are coerced to
// zero before the computation, mirroring how missing bars are treated by
// the data sources; callers must re-check the surfaced values for NaN.
// Any internal failure yields an empty result, never a panic.
func (StochOscillator) Stochastic(series dto.PriceSeries) (points []StochPoint) {
	if len(series) <= minResampledRows {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			points = nil
		}
	}()

	high := make([]float64, len(series))
	low := make([]float64, len(series))
	closes := make([]float64, len(series))
	for i, candle := range series {
		high[i] = zeroIfNaN(candle.High)
		low[i] = zeroIfNaN(candle.Low)
		closes[i] = zeroIfNaN(candle.Close)
	}

	k, d := talib.Stoch(high, low, closes, stochLookback, stochSmoothK, talib.SMA, stochSmoothD, talib.SMA)

	// TA-Lib zero-fills the warm-up region. A literal zero there would read
	// as a real oversold value downstream, so surface NaN instead and let
	// callers map it to null.
	warmup := stochLookback + stochSmoothK + stochSmoothD - 3

	points = make([]StochPoint, len(series))
	for i := range series {
		if i < warmup {
			points[i] = StochPoint{K: math.NaN(), D: math.NaN()}
			continue
		}
		points[i] = StochPoint{K: k[i], D: d[i]}
	}
	return points
}

func zeroIfNaN(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return value
}
