package service

import (
	"context"

	"invest-tracker/config"
	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/internal/repository"
	"invest-tracker/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService triggers the periodic generation batch for every active
// user and prunes stale decision rows.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	Execute(ctx context.Context) error
}

type schedulerService struct {
	cfg          *config.Config
	logger       *logger.Logger
	userRepo     repository.UserRepository
	taService    TAService
	orchestrator Orchestrator
	cron         *cron.Cron
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	userRepo repository.UserRepository,
	taService TAService,
	orchestrator Orchestrator,
) SchedulerService {
	return &schedulerService{
		cfg:          cfg,
		logger:       log,
		userRepo:     userRepo,
		taService:    taService,
		orchestrator: orchestrator,
		cron:         cron.New(),
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.GenerateCron, func() {
		if err := s.Execute(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled generation failed", logger.ErrorField(err))
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("@daily", func() {
		deleted, err := s.taService.CleanupExpired(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "decision cleanup failed", logger.ErrorField(err))
			return
		}
		if deleted > 0 {
			s.logger.InfoContext(ctx, "expired decisions removed",
				logger.IntField("count", int(deleted)))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		logger.StringField("generate_cron", s.cfg.Scheduler.GenerateCron))
	return nil
}

func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
}

// Execute dispatches one generation batch per active user.
func (s *schedulerService) Execute(ctx context.Context) error {
	users, err := s.userRepo.GetActive(ctx)
	if err != nil {
		return err
	}

	for _, user := range users {
		resp, err := s.orchestrator.StartGenerate(ctx, dto.StartGenerateParams{
			UserID:      user.ID,
			Period:      model.PeriodAll,
			SendMessage: s.cfg.Scheduler.SendMessage,
			UpdateDB:    s.cfg.Scheduler.UpdateDB,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to start generation batch",
				logger.IntField("user_id", int(user.ID)),
				logger.ErrorField(err))
			continue
		}
		s.logger.InfoContext(ctx, "generation batch scheduled",
			logger.IntField("user_id", int(user.ID)),
			logger.StringField("task_id", resp.ID))
	}

	return nil
}
