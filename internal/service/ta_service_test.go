package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"invest-tracker/config"
	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/internal/ta"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCandleRepo struct {
	series dto.PriceSeries
	err    error
	calls  int
}

func (f *fakeCandleRepo) Get(ctx context.Context, param dto.GetPriceHistoryParam) (dto.PriceSeries, error) {
	f.calls++
	return f.series, f.err
}

type fakeDecisionRepo struct {
	mu       sync.Mutex
	upserted []model.TADecision
}

func (f *fakeDecisionRepo) GetByCompanies(ctx context.Context, companyIDs []uint, opts ...utils.DBOption) ([]model.TADecision, error) {
	return nil, nil
}

func (f *fakeDecisionRepo) Upsert(ctx context.Context, decision *model.TADecision, opts ...utils.DBOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, *decision)
	return nil
}

func (f *fakeDecisionRepo) DeleteOlderThan(ctx context.Context, days int, opts ...utils.DBOption) (int64, error) {
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Worker: config.Worker{MaxConcurrency: 4},
		TA: config.TA{
			BottomBorder:          25,
			TopBorder:             80,
			HighVolatilityBorder:  40,
			HighVolatilityTickers: []string{"LKOH"},
			HistoryDays:           930,
		},
	}
}

func newTestTAService(candleRepo *fakeCandleRepo, decisionRepo *fakeDecisionRepo) TAService {
	cfg := testConfig()
	engine := ta.NewEngine(ta.Config{
		BottomBorder:          cfg.TA.BottomBorder,
		TopBorder:             cfg.TA.TopBorder,
		HighVolatilityBorder:  cfg.TA.HighVolatilityBorder,
		HighVolatilityTickers: cfg.TA.HighVolatilityTickers,
	}, ta.StochOscillator{})
	return NewTAService(cfg, logger.NewNop(), engine, nil, nil, candleRepo, decisionRepo)
}

func TestDecideForCompanyStopSellNeedsHeldShares(t *testing.T) {
	series := dto.PriceSeries{
		{Date: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), Open: 100, High: 101, Low: 99, Close: 100},
	}
	svc := newTestTAService(&fakeCandleRepo{series: series}, &fakeDecisionRepo{})

	company := dto.CompanyDTO{
		ID:     1,
		Ticker: "SBER",
		Type:   model.SourceMoex,
		Stops:  []dto.CompanyStopDTO{{Period: model.PeriodDay, Value: 150}},
	}

	decisions := svc.DecideForCompany(context.Background(), company, model.PeriodDay)
	require.Len(t, decisions, 1)
	assert.Equal(t, model.DecisionRelax, decisions[0].Decision)

	company.HasShares = true
	decisions = svc.DecideForCompany(context.Background(), company, model.PeriodDay)
	require.Len(t, decisions, 1)
	assert.Equal(t, model.DecisionSell, decisions[0].Decision)
}

func TestDecideForCompanyFetchFailureYieldsUnknown(t *testing.T) {
	svc := newTestTAService(&fakeCandleRepo{err: errors.New("connection refused")}, &fakeDecisionRepo{})

	company := dto.CompanyDTO{ID: 1, Ticker: "SBER", Type: model.SourceMoex}

	decisions := svc.DecideForCompany(context.Background(), company, model.PeriodAll)

	require.Len(t, decisions, 3)
	for _, decision := range decisions {
		assert.Equal(t, model.DecisionUnknown, decision.Decision)
	}
}

func TestDecideForCompanyFetchesHistoryOnce(t *testing.T) {
	candleRepo := &fakeCandleRepo{}
	svc := newTestTAService(candleRepo, &fakeDecisionRepo{})

	svc.DecideForCompany(context.Background(), dto.CompanyDTO{Ticker: "SBER"}, model.PeriodAll)

	assert.Equal(t, 1, candleRepo.calls)
}

func TestGenerateBulkMessages(t *testing.T) {
	price := 123.4
	k, d := 20.5, 10.25

	decisions := []dto.DecisionDTO{
		{Ticker: "SBER", Period: model.PeriodDay, Decision: model.DecisionBuy, LastPrice: &price, K: &k, D: &d},
		{Ticker: "GAZP", Period: model.PeriodDay, Decision: model.DecisionBuy, LastPrice: &price},
		{Ticker: "YNDX", Period: model.PeriodWeek, Decision: model.DecisionRelax},
		{Ticker: "LKOH", Period: model.PeriodMonth, Decision: model.DecisionSell},
	}

	svc := newTestTAService(&fakeCandleRepo{}, &fakeDecisionRepo{})

	messages := svc.GenerateBulkMessages(decisions, false)
	require.Len(t, messages, 2)

	assert.True(t, strings.HasPrefix(messages[0], "Акции - покупать (день)!\n"))
	assert.Contains(t, messages[0], "[SBER](https://www.moex.com/ru/issue.aspx?board=TQBR&code=SBER) - цена: 123.40, k: 20.50, d: 10.25")
	assert.Contains(t, messages[0], "[GAZP](https://www.moex.com/ru/issue.aspx?board=TQBR&code=GAZP) - цена: 123.40\n")
	assert.True(t, strings.HasPrefix(messages[1], "Акции - продавать (месяц)!\n"))
}

func TestGenerateBulkMessagesTestRunIncludesRelax(t *testing.T) {
	decisions := []dto.DecisionDTO{
		{Ticker: "YNDX", Period: model.PeriodWeek, Decision: model.DecisionRelax},
	}

	svc := newTestTAService(&fakeCandleRepo{}, &fakeDecisionRepo{})

	assert.Empty(t, svc.GenerateBulkMessages(decisions, false))

	messages := svc.GenerateBulkMessages(decisions, true)
	require.Len(t, messages, 1)
	assert.True(t, strings.HasPrefix(messages[0], "Акции - ничего не делать (неделя)!\n"))
}

func TestGenerateBulkMessagesEmpty(t *testing.T) {
	svc := newTestTAService(&fakeCandleRepo{}, &fakeDecisionRepo{})
	assert.Empty(t, svc.GenerateBulkMessages(nil, true))
}

func TestPersistDecisions(t *testing.T) {
	decisionRepo := &fakeDecisionRepo{}
	svc := newTestTAService(&fakeCandleRepo{}, decisionRepo)

	k := 55.5
	decisions := []dto.DecisionDTO{
		{CompanyID: 1, Period: model.PeriodDay, Decision: model.DecisionBuy, K: &k},
		{CompanyID: 1, Period: model.PeriodWeek, Decision: model.DecisionRelax},
		{CompanyID: 2, Period: model.PeriodDay, Decision: model.DecisionSell},
	}

	err := svc.PersistDecisions(context.Background(), decisions)
	require.NoError(t, err)
	assert.Len(t, decisionRepo.upserted, 3)
}
