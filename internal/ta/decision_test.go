package ta

import (
	"math"
	"testing"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOscillator returns canned points keyed by resampled series length,
// which is distinct per granularity for a long daily input.
type fakeOscillator struct {
	points map[int][]StochPoint
}

func (f fakeOscillator) Stochastic(series dto.PriceSeries) []StochPoint {
	return f.points[len(series)]
}

type periodLengths struct {
	day, week, month int
}

func seriesLengths(series dto.PriceSeries) periodLengths {
	return periodLengths{
		day:   len(series),
		week:  len(Resample(series, model.PeriodWeek)),
		month: len(Resample(series, model.PeriodMonth)),
	}
}

func newTestEngine(series dto.PriceSeries, day, week, month StochPoint) *Engine {
	lengths := seriesLengths(series)
	return NewEngine(DefaultConfig(), fakeOscillator{points: map[int][]StochPoint{
		lengths.day:   {day},
		lengths.week:  {week},
		lengths.month: {month},
	}})
}

func testCompany(ticker string) dto.CompanyDTO {
	return dto.CompanyDTO{ID: 1, Ticker: ticker, Name: ticker, Type: model.SourceMoex}
}

func TestDecideEmptySeriesIsUnknown(t *testing.T) {
	engine := NewEngine(DefaultConfig(), StochOscillator{})

	decision := engine.Decide(testCompany("SBER"), model.PeriodDay, nil)

	assert.Equal(t, model.DecisionUnknown, decision.Decision)
	assert.Nil(t, decision.K)
	assert.Nil(t, decision.D)
	assert.Nil(t, decision.LastPrice)
}

func TestDecideInsufficientHistoryIsUnknown(t *testing.T) {
	// 60 days resample to well under the oscillator floor for months.
	series := genDailySeries(60)
	engine := NewEngine(DefaultConfig(), StochOscillator{})

	decision := engine.Decide(testCompany("SBER"), model.PeriodMonth, series)

	assert.Equal(t, model.DecisionUnknown, decision.Decision)
	assert.Nil(t, decision.LastPrice)
}

func TestDecideStopOverridesEverything(t *testing.T) {
	series := genDailySeries(730)
	lastClose := series[len(series)-1].Close

	company := testCompany("SBER")
	company.Stops = []dto.CompanyStopDTO{{Period: model.PeriodDay, Value: lastClose + 1}}

	// Indicator points scream BUY; the stop must win anyway.
	engine := newTestEngine(series,
		StochPoint{K: 20, D: 10},
		StochPoint{K: 20, D: 10},
		StochPoint{K: 20, D: 10})

	decision := engine.Decide(company, model.PeriodDay, series)

	assert.Equal(t, model.DecisionSell, decision.Decision)
	require.NotNil(t, decision.LastPrice)
	assert.Equal(t, lastClose, *decision.LastPrice)
	assert.Nil(t, decision.K)
	assert.Nil(t, decision.D)
}

func TestDecideStopForOtherPeriodIsIgnored(t *testing.T) {
	series := genDailySeries(730)
	lastClose := series[len(series)-1].Close

	company := testCompany("SBER")
	company.Stops = []dto.CompanyStopDTO{{Period: model.PeriodWeek, Value: lastClose + 1}}

	engine := newTestEngine(series,
		StochPoint{K: 50, D: 40},
		StochPoint{K: 50, D: 40},
		StochPoint{K: 50, D: 40})

	decision := engine.Decide(company, model.PeriodDay, series)

	assert.NotEqual(t, model.DecisionSell, decision.Decision)
}

func TestDecideMonth(t *testing.T) {
	series := genDailySeries(730)

	tests := []struct {
		name  string
		month StochPoint
		want  model.Decision
	}{
		{name: "buy when d below k under bottom border", month: StochPoint{K: 20, D: 10}, want: model.DecisionBuy},
		{name: "sell when d above k over top border", month: StochPoint{K: 85, D: 90}, want: model.DecisionSell},
		{name: "relax when k between borders", month: StochPoint{K: 50, D: 40}, want: model.DecisionRelax},
		{name: "relax when falling but above bottom", month: StochPoint{K: 50, D: 60}, want: model.DecisionRelax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(series,
				StochPoint{K: 33, D: 44}, StochPoint{K: 33, D: 44}, tt.month)

			decision := engine.Decide(testCompany("SBER"), model.PeriodMonth, series)

			assert.Equal(t, tt.want, decision.Decision)
			require.NotNil(t, decision.K)
			require.NotNil(t, decision.D)
			assert.Equal(t, 33.0, *decision.K)
			assert.Equal(t, 44.0, *decision.D)
		})
	}
}

func TestDecideWeekRequiresMonthConfirmation(t *testing.T) {
	series := genDailySeries(730)

	tests := []struct {
		name  string
		week  StochPoint
		month StochPoint
		want  model.Decision
	}{
		{
			name:  "buy confirmed by rising month",
			week:  StochPoint{K: 20, D: 10},
			month: StochPoint{K: 50, D: 40},
			want:  model.DecisionBuy,
		},
		{
			name:  "buy rejected by falling month",
			week:  StochPoint{K: 20, D: 10},
			month: StochPoint{K: 40, D: 50},
			want:  model.DecisionRelax,
		},
		{
			name: "near-miss buy promoted via the wide border recheck",
			// K 30 misses the default bottom border but passes 40.
			week:  StochPoint{K: 30, D: 20},
			month: StochPoint{K: 50, D: 40},
			want:  model.DecisionBuy,
		},
		{
			name:  "no buy when the week itself is outside the wide border",
			week:  StochPoint{K: 50, D: 40},
			month: StochPoint{K: 50, D: 40},
			want:  model.DecisionRelax,
		},
		{
			name:  "sell needs no confirmation",
			week:  StochPoint{K: 85, D: 90},
			month: StochPoint{K: 50, D: 40},
			want:  model.DecisionSell,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(series, StochPoint{K: 33, D: 44}, tt.week, tt.month)

			decision := engine.Decide(testCompany("SBER"), model.PeriodWeek, series)

			assert.Equal(t, tt.want, decision.Decision)
		})
	}
}

func TestDecideDayRequiresWeekAndMonthConfirmation(t *testing.T) {
	series := genDailySeries(730)

	rising := StochPoint{K: 50, D: 40}
	falling := StochPoint{K: 40, D: 50}
	buySignal := StochPoint{K: 20, D: 10}

	tests := []struct {
		name             string
		day, week, month StochPoint
		want             model.Decision
	}{
		{name: "buy confirmed by both longer timeframes", day: buySignal, week: rising, month: rising, want: model.DecisionBuy},
		{name: "buy rejected by falling week", day: buySignal, week: falling, month: rising, want: model.DecisionRelax},
		{name: "buy rejected by falling month", day: buySignal, week: rising, month: falling, want: model.DecisionRelax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(series, tt.day, tt.week, tt.month)

			decision := engine.Decide(testCompany("SBER"), model.PeriodDay, series)

			assert.Equal(t, tt.want, decision.Decision)
		})
	}
}

func TestDecideHighVolatilityTickerUsesWiderBorder(t *testing.T) {
	series := genDailySeries(730)
	// K 30 is above the default bottom border but below the wide one.
	point := StochPoint{K: 30, D: 20}

	engine := newTestEngine(series, point, point, point)

	assert.Equal(t, model.DecisionRelax,
		engine.Decide(testCompany("SBER"), model.PeriodMonth, series).Decision)
	assert.Equal(t, model.DecisionBuy,
		engine.Decide(testCompany("LKOH"), model.PeriodMonth, series).Decision)
}

func TestDecideNaNIndicatorsSurfaceAsNil(t *testing.T) {
	series := genDailySeries(730)

	engine := newTestEngine(series,
		StochPoint{K: math.NaN(), D: math.NaN()},
		StochPoint{K: 50, D: 40},
		StochPoint{K: 50, D: 40})

	decision := engine.Decide(testCompany("SBER"), model.PeriodMonth, series)

	assert.Nil(t, decision.K)
	assert.Nil(t, decision.D)
	require.NotNil(t, decision.LastPrice)
}

func TestDecideShortHistoryYieldsRelaxWithNilIndicators(t *testing.T) {
	// Above the row floor but inside the oscillator warm-up: every point
	// is NaN, so the day decision falls through to RELAX and no indicator
	// values are reported.
	series := genDailySeries(17)

	engine := NewEngine(DefaultConfig(), StochOscillator{})

	decision := engine.Decide(testCompany("SBER"), model.PeriodDay, series)

	assert.Equal(t, model.DecisionRelax, decision.Decision)
	assert.Nil(t, decision.K)
	assert.Nil(t, decision.D)
	require.NotNil(t, decision.LastPrice)
}
