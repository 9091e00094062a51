package repository

import (
	"invest-tracker/config"
	"invest-tracker/pkg/cache"
	"invest-tracker/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	UserRepo       UserRepository
	CompanyRepo    CompanyRepository
	StrategyRepo   StrategyRepository
	BriefcaseRepo  BriefcaseRepository
	TADecisionRepo TADecisionRepository
	TaskRepo       TaskRepository
	MoexRepo       MoexRepository
	YahooRepo      YahooRepository
	CandleRepo     CandleRepository
	UnitOfWork     UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) *Repository {
	moexRepo := NewMoexRepository(cfg, log)
	yahooRepo := NewYahooRepository(cfg, log)
	priceCache := cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval)

	return &Repository{
		UserRepo:       NewUserRepository(db),
		CompanyRepo:    NewCompanyRepository(db),
		StrategyRepo:   NewStrategyRepository(db),
		BriefcaseRepo:  NewBriefcaseRepository(db),
		TADecisionRepo: NewTADecisionRepository(db),
		TaskRepo:       NewTaskRepository(db),
		MoexRepo:       moexRepo,
		YahooRepo:      yahooRepo,
		CandleRepo:     NewCandleRepository(moexRepo, yahooRepo, priceCache),
		UnitOfWork:     NewUnitOfWork(db),
	}
}
