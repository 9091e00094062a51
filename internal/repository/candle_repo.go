package repository

import (
	"context"
	"fmt"
	"time"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/pkg/cache"
	"invest-tracker/pkg/common"
)

const priceHistoryTTL = 5 * time.Minute

// CandleRepository routes price history requests to the source matching the
// company type and caches the result for a short window so one batch run
// does not hit the exchange once per period.
type CandleRepository interface {
	Get(ctx context.Context, param dto.GetPriceHistoryParam) (dto.PriceSeries, error)
}

type candleRepository struct {
	moexRepo  MoexRepository
	yahooRepo YahooRepository
	cache     cache.Cache
}

func NewCandleRepository(moexRepo MoexRepository, yahooRepo YahooRepository, cache cache.Cache) CandleRepository {
	return &candleRepository{
		moexRepo:  moexRepo,
		yahooRepo: yahooRepo,
		cache:     cache,
	}
}

func (r *candleRepository) Get(ctx context.Context, param dto.GetPriceHistoryParam) (dto.PriceSeries, error) {
	key := fmt.Sprintf(common.KEY_PRICE_HISTORY, param.Source, param.Ticker)
	if cached, ok := r.cache.Get(key); ok {
		if series, ok := cached.(dto.PriceSeries); ok {
			return series, nil
		}
	}

	var (
		series dto.PriceSeries
		err    error
	)
	switch param.Source {
	case model.SourceMoex:
		series, err = r.moexRepo.GetPriceHistory(ctx, param)
	default:
		series, err = r.yahooRepo.GetPriceHistory(ctx, param)
	}
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, series, priceHistoryTTL)
	return series, nil
}
