package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"invest-tracker/config"
	"invest-tracker/internal/dto"
	"invest-tracker/pkg/httpclient"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/utils"

	"golang.org/x/time/rate"
)

const (
	moexDateLayout = "2006-01-02"

	// 10-minute candles: the last one of the day stands in for the
	// still-forming daily bar.
	moexIntradayInterval = "10"
)

type MoexRepository interface {
	GetPriceHistory(ctx context.Context, param dto.GetPriceHistoryParam) (dto.PriceSeries, error)
}

type moexRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	mu             sync.Mutex
}

func NewMoexRepository(cfg *config.Config, log *logger.Logger) MoexRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Moex.MaxRequestPerMin)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &moexRepository{
		httpClient:     httpclient.New(cfg.Moex.BaseURL, cfg.Moex.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

// moexTable is the ISS column/row block shared by every ISS endpoint.
type moexTable struct {
	Columns []string        `json:"columns"`
	Data    [][]interface{} `json:"data"`
}

type moexHistoryResponse struct {
	History moexTable `json:"history"`
}

type moexCandlesResponse struct {
	Candles moexTable `json:"candles"`
}

// GetPriceHistory pages through the ISS board history for the ticker and,
// when requested, overlays today's still-forming bar from the intraday
// candles endpoint. An unknown ticker yields an empty series, not an error.
func (r *moexRepository) GetPriceHistory(ctx context.Context, param dto.GetPriceHistoryParam) (dto.PriceSeries, error) {
	if err := r.waitLimiter(ctx); err != nil {
		return nil, err
	}

	series, err := r.fetchBoardHistory(ctx, param.Ticker, param.StartDate)
	if err != nil {
		return nil, err
	}

	if param.AddCurrent {
		current, err := r.fetchCurrentCandle(ctx, param.Ticker)
		if err != nil {
			r.logger.WarnContext(ctx, "failed to fetch current MOEX candle",
				logger.StringField("ticker", param.Ticker),
				logger.ErrorField(err))
		} else if current != nil {
			series = mergeCurrentCandle(series, *current)
		}
	}

	return series, nil
}

func (r *moexRepository) waitLimiter(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.requestLimiter.Allow() {
		r.logger.WarnContext(ctx, "MOEX ISS request limit exceeded",
			logger.IntField("max_request_per_min", r.cfg.Moex.MaxRequestPerMin))
	}
	return r.requestLimiter.Wait(ctx)
}

func (r *moexRepository) fetchBoardHistory(ctx context.Context, ticker string, start time.Time) (dto.PriceSeries, error) {
	endpoint := fmt.Sprintf("/iss/history/engines/stock/markets/shares/boards/%s/securities/%s.json",
		r.cfg.Moex.Board, ticker)

	series := dto.PriceSeries{}
	cursor := 0
	for {
		queryParams := map[string]string{
			"from":            start.Format(moexDateLayout),
			"start":           strconv.Itoa(cursor),
			"history.columns": "TRADEDATE,OPEN,HIGH,LOW,CLOSE",
		}

		var historyResp moexHistoryResponse
		resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, &historyResp)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch MOEX history: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("moex iss returned status: %d", resp.StatusCode)
		}

		rows := historyResp.History.Data
		if len(rows) == 0 {
			break
		}

		idx := columnIndexes(historyResp.History.Columns)
		for _, row := range rows {
			candle, ok := rowToCandle(row, idx)
			if !ok {
				continue
			}
			series = append(series, candle)
		}
		cursor += len(rows)
	}

	return series, nil
}

func (r *moexRepository) fetchCurrentCandle(ctx context.Context, ticker string) (*dto.Candle, error) {
	endpoint := fmt.Sprintf("/iss/engines/stock/markets/shares/boards/%s/securities/%s/candles.json",
		r.cfg.Moex.Board, ticker)

	today := utils.DateOnly(time.Now())
	queryParams := map[string]string{
		"from":            today.Format(moexDateLayout),
		"interval":        moexIntradayInterval,
		"candles.columns": "begin,open,high,low,close",
	}

	var candlesResp moexCandlesResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, &candlesResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch MOEX candles: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moex iss returned status: %d", resp.StatusCode)
	}

	rows := candlesResp.Candles.Data
	if len(rows) == 0 {
		return nil, nil
	}

	idx := map[string]int{}
	for i, col := range candlesResp.Candles.Columns {
		idx[col] = i
	}

	last := rows[len(rows)-1]
	open, okO := floatAt(last, idx["open"])
	high, okH := floatAt(last, idx["high"])
	low, okL := floatAt(last, idx["low"])
	closePrice, okC := floatAt(last, idx["close"])
	if !okO || !okH || !okL || !okC {
		return nil, nil
	}

	return &dto.Candle{
		Date:  today,
		Open:  open,
		High:  high,
		Low:   low,
		Close: closePrice,
	}, nil
}

// mergeCurrentCandle replaces the last bar when it falls on the same day,
// appends otherwise.
func mergeCurrentCandle(series dto.PriceSeries, current dto.Candle) dto.PriceSeries {
	if len(series) > 0 && utils.DateOnly(series[len(series)-1].Date).Equal(current.Date) {
		series[len(series)-1] = current
		return series
	}
	return append(series, current)
}

func columnIndexes(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, col := range columns {
		idx[col] = i
	}
	return idx
}

// rowToCandle decodes one ISS history row. Rows with null prices (trading
// holidays, suspended tickers) are skipped.
func rowToCandle(row []interface{}, idx map[string]int) (dto.Candle, bool) {
	dateStr, okDate := stringAt(row, idx["TRADEDATE"])
	open, okO := floatAt(row, idx["OPEN"])
	high, okH := floatAt(row, idx["HIGH"])
	low, okL := floatAt(row, idx["LOW"])
	closePrice, okC := floatAt(row, idx["CLOSE"])
	if !okDate || !okO || !okH || !okL || !okC {
		return dto.Candle{}, false
	}

	date, err := time.Parse(moexDateLayout, dateStr)
	if err != nil {
		return dto.Candle{}, false
	}

	return dto.Candle{
		Date:  date,
		Open:  open,
		High:  high,
		Low:   low,
		Close: closePrice,
	}, true
}

func floatAt(row []interface{}, i int) (float64, bool) {
	if i < 0 || i >= len(row) {
		return 0, false
	}
	v, ok := row[i].(float64)
	return v, ok
}

func stringAt(row []interface{}, i int) (string, bool) {
	if i < 0 || i >= len(row) {
		return "", false
	}
	v, ok := row[i].(string)
	return v, ok
}
