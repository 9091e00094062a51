package ta

import (
	"math"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/pkg/utils"
)

// Config holds the decision borders. One engine instance serves every
// company; per-ticker tuning happens through HighVolatilityTickers.
type Config struct {
	BottomBorder          float64
	TopBorder             float64
	HighVolatilityBorder  float64
	HighVolatilityTickers []string
}

func DefaultConfig() Config {
	return Config{
		BottomBorder:          25,
		TopBorder:             80,
		HighVolatilityBorder:  40,
		HighVolatilityTickers: []string{"LKOH"},
	}
}

// Engine converts a price history into a BUY/SELL/RELAX/UNKNOWN decision.
// It is a pure function over its inputs and safe for concurrent use.
type Engine struct {
	cfg Config
	osc Oscillator
}

func NewEngine(cfg Config, osc Oscillator) *Engine {
	return &Engine{cfg: cfg, osc: osc}
}

type periodSignal struct {
	decision model.Decision
	points   []StochPoint
}

// Decide derives the decision for one company and period from a daily
// price history.
//
// A configured stop below the last price forces SELL before any indicator
// work. A buy signal must then agree across the longer timeframes before it
// is honored; sell signals fire per-timeframe with no cross-confirmation.
func (e *Engine) Decide(company dto.CompanyDTO, period model.Period, series dto.PriceSeries) dto.DecisionDTO {
	decision := dto.DecisionDTO{
		CompanyID: company.ID,
		Ticker:    company.Ticker,
		Period:    period,
		Decision:  model.DecisionUnknown,
	}

	lastPrice, ok := series.LastClose()
	if !ok {
		return decision
	}

	if stop := company.StopForPeriod(period); stop != nil && lastPrice <= *stop {
		decision.Decision = model.DecisionSell
		decision.LastPrice = &lastPrice
		return decision
	}

	bottom := e.cfg.BottomBorder
	if utils.ContainsString(e.cfg.HighVolatilityTickers, company.Ticker) {
		bottom = e.cfg.HighVolatilityBorder
	}

	raw := e.periodDecision(series, period, false, bottom, e.cfg.TopBorder)
	if raw.decision == model.DecisionUnknown {
		return decision
	}

	decision.Decision = raw.decision
	if period != model.PeriodMonth && raw.decision != model.DecisionSell {
		if e.confirmBuy(series, period) {
			decision.Decision = model.DecisionBuy
		} else {
			decision.Decision = model.DecisionRelax
		}
	}

	decision.LastPrice = &lastPrice
	decision.K, decision.D = e.dayIndicators(series)
	return decision
}

// confirmBuy checks the longer timeframes. A week buy needs the month trend
// to agree; a day buy needs both week and month.
func (e *Engine) confirmBuy(series dto.PriceSeries, period model.Period) bool {
	bottom, top := e.cfg.BottomBorder, e.cfg.TopBorder

	switch period {
	case model.PeriodWeek:
		month := e.periodDecision(series, model.PeriodMonth, true, bottom, top)
		week := e.periodDecision(series, model.PeriodWeek, false, e.cfg.HighVolatilityBorder, top)
		return month.decision == model.DecisionBuy && week.decision == model.DecisionBuy

	case model.PeriodDay:
		day := e.periodDecision(series, model.PeriodDay, false, bottom, top)
		week := e.periodDecision(series, model.PeriodWeek, true, bottom, top)
		month := e.periodDecision(series, model.PeriodMonth, true, bottom, top)
		return day.decision == model.DecisionBuy &&
			week.decision == model.DecisionBuy &&
			month.decision == model.DecisionBuy
	}

	return false
}

// periodDecision computes the raw signal for one granularity. The buy check
// runs before the sell check; d<k and d>k cannot both hold, the ordering is
// the defined tie-break.
func (e *Engine) periodDecision(series dto.PriceSeries, period model.Period, skipBorders bool, bottom, top float64) periodSignal {
	if len(series) == 0 {
		return periodSignal{decision: model.DecisionUnknown}
	}

	points := e.indicators(series, period)
	if len(points) == 0 {
		return periodSignal{decision: model.DecisionUnknown}
	}

	last := points[len(points)-1]
	needBuy := last.D < last.K && (skipBorders || last.K < bottom)
	needSell := last.D > last.K && (skipBorders || last.K > top)

	decision := model.DecisionRelax
	if needBuy {
		decision = model.DecisionBuy
	} else if needSell {
		decision = model.DecisionSell
	}

	return periodSignal{decision: decision, points: points}
}

// indicators resamples and runs the oscillator, empty when the resampled
// series is too short for the lookback.
func (e *Engine) indicators(series dto.PriceSeries, period model.Period) []StochPoint {
	resampled := Resample(series, period)
	if len(resampled) <= minResampledRows {
		return nil
	}
	return e.osc.Stochastic(resampled)
}

// dayIndicators surfaces the latest day-granularity {k, d} pair, nil values
// when the series is too short or the computation produced NaN.
func (e *Engine) dayIndicators(series dto.PriceSeries) (*float64, *float64) {
	points := e.indicators(series, model.PeriodDay)
	if len(points) == 0 {
		return nil, nil
	}

	last := points[len(points)-1]
	var k, d *float64
	if !math.IsNaN(last.K) {
		k = utils.ToPointer(last.K)
	}
	if !math.IsNaN(last.D) {
		d = utils.ToPointer(last.D)
	}
	return k, d
}
