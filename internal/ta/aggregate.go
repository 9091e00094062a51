package ta

import (
	"time"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/pkg/utils"
)

// minResampledRows is the floor under which a resampled series is considered
// insufficient for the oscillator lookback.
const minResampledRows = 15

// Resample groups a daily OHLC series into the target granularity. Weeks
// start on Monday, months on the 1st. Within a bucket OPEN is the first
// value, CLOSE the last, HIGH the max and LOW the min. Day granularity is
// a pass-through.
func Resample(series dto.PriceSeries, period model.Period) dto.PriceSeries {
	if period == model.PeriodDay || len(series) == 0 {
		return series
	}

	bucketStart := bucketFunc(period)

	resampled := make(dto.PriceSeries, 0, len(series))
	var current *dto.Candle
	for _, candle := range series {
		start := bucketStart(candle.Date)
		if current == nil || !current.Date.Equal(start) {
			if current != nil {
				resampled = append(resampled, *current)
			}
			bar := candle
			bar.Date = start
			current = &bar
			continue
		}

		current.Close = candle.Close
		if candle.High > current.High {
			current.High = candle.High
		}
		if candle.Low < current.Low {
			current.Low = candle.Low
		}
	}
	if current != nil {
		resampled = append(resampled, *current)
	}

	return resampled
}

func bucketFunc(period model.Period) func(time.Time) time.Time {
	if period == model.PeriodMonth {
		return utils.MonthStart
	}
	return utils.WeekStart
}
