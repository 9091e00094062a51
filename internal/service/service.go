package service

import (
	"invest-tracker/config"
	"invest-tracker/internal/repository"
	"invest-tracker/internal/ta"
	"invest-tracker/internal/taskqueue"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/telegram"
)

type Service struct {
	TAService        TAService
	Orchestrator     Orchestrator
	BriefcaseService BriefcaseService
	CompanyService   CompanyService
	StrategyService  StrategyService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	tasks taskqueue.Client,
	notifier telegram.Notifier,
) *Service {
	engine := ta.NewEngine(ta.Config{
		BottomBorder:          cfg.TA.BottomBorder,
		TopBorder:             cfg.TA.TopBorder,
		HighVolatilityBorder:  cfg.TA.HighVolatilityBorder,
		HighVolatilityTickers: cfg.TA.HighVolatilityTickers,
	}, ta.StochOscillator{})

	taService := NewTAService(cfg, log, engine,
		repo.CompanyRepo, repo.BriefcaseRepo, repo.CandleRepo, repo.TADecisionRepo)
	orchestrator := NewOrchestrator(log, taService, tasks, notifier, repo.UnitOfWork)

	return &Service{
		TAService:        taService,
		Orchestrator:     orchestrator,
		BriefcaseService: NewBriefcaseService(log, repo.BriefcaseRepo, repo.UnitOfWork),
		CompanyService:   NewCompanyService(repo.CompanyRepo),
		StrategyService:  NewStrategyService(repo.StrategyRepo),
		SchedulerService: NewSchedulerService(cfg, log, repo.UserRepo, taService, orchestrator),
	}
}
