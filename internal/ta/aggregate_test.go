package ta

import (
	"testing"
	"time"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResample(t *testing.T) {
	daily := dto.PriceSeries{
		{Date: day(2024, time.January, 1), Open: 10, High: 12, Low: 9, Close: 11},  // Monday
		{Date: day(2024, time.January, 2), Open: 11, High: 15, Low: 10, Close: 14},
		{Date: day(2024, time.January, 5), Open: 14, High: 14, Low: 8, Close: 9},   // Friday
		{Date: day(2024, time.January, 8), Open: 9, High: 10, Low: 7, Close: 8},    // next Monday
		{Date: day(2024, time.January, 9), Open: 8, High: 13, Low: 8, Close: 12},
	}

	tests := []struct {
		name   string
		series dto.PriceSeries
		period model.Period
		want   dto.PriceSeries
	}{
		{
			name:   "day is a pass-through",
			series: daily,
			period: model.PeriodDay,
			want:   daily,
		},
		{
			name:   "empty series",
			series: dto.PriceSeries{},
			period: model.PeriodWeek,
			want:   dto.PriceSeries{},
		},
		{
			name:   "weekly buckets start on Monday",
			series: daily,
			period: model.PeriodWeek,
			want: dto.PriceSeries{
				{Date: day(2024, time.January, 1), Open: 10, High: 15, Low: 8, Close: 9},
				{Date: day(2024, time.January, 8), Open: 9, High: 13, Low: 7, Close: 12},
			},
		},
		{
			name: "monthly buckets start on the 1st",
			series: dto.PriceSeries{
				{Date: day(2024, time.January, 30), Open: 10, High: 12, Low: 9, Close: 11},
				{Date: day(2024, time.January, 31), Open: 11, High: 16, Low: 11, Close: 15},
				{Date: day(2024, time.February, 1), Open: 15, High: 17, Low: 14, Close: 16},
			},
			period: model.PeriodMonth,
			want: dto.PriceSeries{
				{Date: day(2024, time.January, 1), Open: 10, High: 16, Low: 9, Close: 15},
				{Date: day(2024, time.February, 1), Open: 15, High: 17, Low: 14, Close: 16},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample(tt.series, tt.period)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResampleSundayFallsInPreviousWeek(t *testing.T) {
	series := dto.PriceSeries{
		{Date: day(2024, time.January, 7), Open: 1, High: 2, Low: 1, Close: 2}, // Sunday
		{Date: day(2024, time.January, 8), Open: 2, High: 3, Low: 2, Close: 3}, // Monday
	}

	got := Resample(series, model.PeriodWeek)

	assert.Len(t, got, 2)
	assert.Equal(t, day(2024, time.January, 1), got[0].Date)
	assert.Equal(t, day(2024, time.January, 8), got[1].Date)
}
