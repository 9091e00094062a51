package model

// Period is a time granularity for candles and decisions.
type Period string

const (
	PeriodDay   Period = "D"
	PeriodWeek  Period = "W"
	PeriodMonth Period = "M"

	// PeriodAll is only valid in generate requests, never persisted.
	PeriodAll Period = "ALL"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// DecisionPeriods returns the persisted periods in evaluation order.
func DecisionPeriods() []Period {
	return []Period{PeriodMonth, PeriodWeek, PeriodDay}
}

// Decision is the outcome of the technical analysis for one company and period.
type Decision string

const (
	DecisionBuy     Decision = "BUY"
	DecisionSell    Decision = "SELL"
	DecisionRelax   Decision = "RELAX"
	DecisionUnknown Decision = "UNKNOWN"
)

// SourceType selects the price history source for a company.
type SourceType string

const (
	SourceMoex  SourceType = "MOEX"
	SourceYahoo SourceType = "YAHOO"
)

// RegistryOperation is the kind of a briefcase registry transaction.
type RegistryOperation string

const (
	OperationBuy       RegistryOperation = "BUY"
	OperationSell      RegistryOperation = "SELL"
	OperationDividends RegistryOperation = "DIVIDENDS"
)

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)
