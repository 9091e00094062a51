package repository

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"invest-tracker/config"
	"invest-tracker/internal/dto"
	"invest-tracker/pkg/httpclient"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/utils"

	"golang.org/x/time/rate"
)

type YahooRepository interface {
	GetPriceHistory(ctx context.Context, param dto.GetPriceHistoryParam) (dto.PriceSeries, error)
}

type yahooRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	mu             sync.Mutex
}

func NewYahooRepository(cfg *config.Config, log *logger.Logger) YahooRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Yahoo.MaxRequestPerMin)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &yahooRepository{
		httpClient:     httpclient.New(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []float64 `json:"open"`
					High  []float64 `json:"high"`
					Low   []float64 `json:"low"`
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// GetPriceHistory reads daily bars from the v8 chart API. Yahoo includes
// today's still-forming bar in the range, so no separate intraday merge is
// needed. A symbol without history yields an empty series.
func (r *yahooRepository) GetPriceHistory(ctx context.Context, param dto.GetPriceHistoryParam) (dto.PriceSeries, error) {
	r.mu.Lock()
	if !r.requestLimiter.Allow() {
		r.logger.WarnContext(ctx, "Yahoo Finance request limit exceeded",
			logger.IntField("max_request_per_min", r.cfg.Yahoo.MaxRequestPerMin))
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.mu.Unlock()

	endpoint := "/v8/finance/chart/" + param.Ticker
	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", param.StartDate.Unix()),
		"period2":        fmt.Sprintf("%d", time.Now().Unix()),
		"interval":       "1d",
		"includePrePost": "false",
	}

	headers := map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":     "application/json, text/plain, */*",
	}

	var chartResp yahooChartResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, headers, &chartResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from yahoo finance: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return dto.PriceSeries{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Yahoo Finance returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("yahoo finance returned status: %d", resp.StatusCode)
	}

	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance error: %v", chartResp.Chart.Error)
	}
	if len(chartResp.Chart.Result) == 0 {
		return dto.PriceSeries{}, nil
	}

	result := chartResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return dto.PriceSeries{}, nil
	}

	quote := result.Indicators.Quote[0]
	series := dto.PriceSeries{}
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}
		if quote.Open[i] == 0 || quote.High[i] == 0 || quote.Low[i] == 0 || quote.Close[i] == 0 {
			continue
		}
		series = append(series, dto.Candle{
			Date:  utils.DateOnly(time.Unix(ts, 0).UTC()),
			Open:  quote.Open[i],
			High:  quote.High[i],
			Low:   quote.Low[i],
			Close: quote.Close[i],
		})
	}

	return series, nil
}
