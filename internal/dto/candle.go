package dto

import (
	"time"

	"invest-tracker/internal/model"
)

// Candle is one OHLC bar. Date is the bar's bucket start (day, week Monday
// or first of month depending on granularity).
type Candle struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered-by-date sequence of OHLC bars for one ticker.
type PriceSeries []Candle

// LastClose returns the close of the most recent bar, false when empty.
func (s PriceSeries) LastClose() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1].Close, true
}

type GetPriceHistoryParam struct {
	Ticker     string
	Source     model.SourceType
	StartDate  time.Time
	AddCurrent bool
}
