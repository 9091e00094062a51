package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invest-tracker/config"
	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/internal/repository"
	"invest-tracker/internal/ta"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/utils"

	"golang.org/x/sync/errgroup"
)

var periodNames = map[model.Period]string{
	model.PeriodMonth: "месяц",
	model.PeriodDay:   "день",
	model.PeriodWeek:  "неделя",
}

var decisionNames = map[model.Decision]string{
	model.DecisionSell:    "продавать",
	model.DecisionBuy:     "покупать",
	model.DecisionRelax:   "ничего не делать",
	model.DecisionUnknown: "неизвестный статус",
}

type TAService interface {
	BuildCompanyDTOs(ctx context.Context, userID uint) ([]dto.CompanyDTO, error)
	DecideForCompany(ctx context.Context, company dto.CompanyDTO, period model.Period) []dto.DecisionDTO
	GenerateBulkMessages(decisions []dto.DecisionDTO, sendTestMessage bool) []string
	DecideCompanyByID(ctx context.Context, userID, companyID uint, period model.Period) ([]dto.DecisionDTO, error)
	GetDecisions(ctx context.Context, userID uint) ([]model.TADecision, error)
	PersistDecisions(ctx context.Context, decisions []dto.DecisionDTO) error
	CleanupExpired(ctx context.Context) (int64, error)
}

type taService struct {
	cfg            *config.Config
	logger         *logger.Logger
	engine         *ta.Engine
	companyRepo    repository.CompanyRepository
	briefcaseRepo  repository.BriefcaseRepository
	candleRepo     repository.CandleRepository
	taDecisionRepo repository.TADecisionRepository
}

func NewTAService(
	cfg *config.Config,
	log *logger.Logger,
	engine *ta.Engine,
	companyRepo repository.CompanyRepository,
	briefcaseRepo repository.BriefcaseRepository,
	candleRepo repository.CandleRepository,
	taDecisionRepo repository.TADecisionRepository,
) TAService {
	return &taService{
		cfg:            cfg,
		logger:         log,
		engine:         engine,
		companyRepo:    companyRepo,
		briefcaseRepo:  briefcaseRepo,
		candleRepo:     candleRepo,
		taDecisionRepo: taDecisionRepo,
	}
}

// BuildCompanyDTOs snapshots the user's companies together with their stops
// and held-share flags. The snapshot travels inside task payloads so the
// map stage never reads company data from the database.
func (s *taService) BuildCompanyDTOs(ctx context.Context, userID uint) ([]dto.CompanyDTO, error) {
	companies, err := s.companyRepo.Get(ctx, dto.GetCompaniesParam{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load companies: %w", err)
	}

	briefcase, err := s.briefcaseRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load briefcase: %w", err)
	}

	shares, err := s.briefcaseRepo.GetShares(ctx, briefcase.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load briefcase shares: %w", err)
	}

	held := make(map[uint]bool, len(shares))
	for _, share := range shares {
		held[share.CompanyID] = share.Count > 0
	}

	companyDTOs := make([]dto.CompanyDTO, 0, len(companies))
	for _, company := range companies {
		stops := make([]dto.CompanyStopDTO, 0, len(company.Stops))
		for _, stop := range company.Stops {
			stops = append(stops, dto.CompanyStopDTO{Period: stop.Period, Value: stop.Value})
		}
		companyDTOs = append(companyDTOs, dto.CompanyDTO{
			ID:        company.ID,
			Ticker:    company.Ticker,
			Name:      company.Name,
			Type:      company.Type,
			HasShares: held[company.ID],
			Stops:     stops,
		})
	}

	return companyDTOs, nil
}

// DecideForCompany fetches the price history once and derives the decision
// for every requested period. A fetch failure degrades to UNKNOWN decisions
// rather than aborting, one broken ticker must not sink a whole batch.
func (s *taService) DecideForCompany(ctx context.Context, company dto.CompanyDTO, period model.Period) []dto.DecisionDTO {
	periods := model.DecisionPeriods()
	if period != model.PeriodAll {
		periods = []model.Period{period}
	}

	start := time.Now().AddDate(0, 0, -s.cfg.TA.HistoryDays)
	series, err := s.candleRepo.Get(ctx, dto.GetPriceHistoryParam{
		Ticker:     company.Ticker,
		Source:     company.Type,
		StartDate:  start,
		AddCurrent: true,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch price history",
			logger.StringField("ticker", company.Ticker),
			logger.ErrorField(err))
		series = nil
	}

	decisions := make([]dto.DecisionDTO, 0, len(periods))
	for _, p := range periods {
		decision := s.engine.Decide(company, p, series)

		// No shares in the briefcase means there is nothing to sell.
		if !company.HasShares && decision.Decision == model.DecisionSell {
			decision.Decision = model.DecisionRelax
		}

		decisions = append(decisions, decision)
	}

	return decisions
}

// GenerateBulkMessages groups decisions by (decision, period) in first-seen
// order and renders one message per group. Only BUY and SELL groups are
// rendered unless a test run asks for everything.
func (s *taService) GenerateBulkMessages(decisions []dto.DecisionDTO, sendTestMessage bool) []string {
	if len(decisions) == 0 {
		return nil
	}

	type groupKey struct {
		decision model.Decision
		period   model.Period
	}

	var order []groupKey
	groups := make(map[groupKey][]dto.DecisionDTO)
	for _, decision := range decisions {
		key := groupKey{decision: decision.Decision, period: decision.Period}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], decision)
	}

	var messages []string
	for _, key := range order {
		if !sendTestMessage && key.decision != model.DecisionBuy && key.decision != model.DecisionSell {
			continue
		}
		messages = append(messages, s.fillMessage(key.decision, key.period, groups[key]))
	}

	return messages
}

func (s *taService) fillMessage(decision model.Decision, period model.Period, decisions []dto.DecisionDTO) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Акции - %s (%s)!\n", decisionNames[decision], periodNames[period]))

	for _, dec := range decisions {
		link := fmt.Sprintf("[%s](https://www.moex.com/ru/issue.aspx?board=TQBR&code=%s)", utils.EscapeMarkdown(dec.Ticker), dec.Ticker)
		sb.WriteString(link)

		if dec.LastPrice != nil {
			sb.WriteString(fmt.Sprintf(" - цена: %.2f", *dec.LastPrice))
		}
		if dec.K != nil && dec.D != nil {
			sb.WriteString(fmt.Sprintf(", k: %.2f, d: %.2f", *dec.K, *dec.D))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// DecideCompanyByID computes and persists decisions for one company
// synchronously, bypassing the task queue.
func (s *taService) DecideCompanyByID(ctx context.Context, userID, companyID uint, period model.Period) ([]dto.DecisionDTO, error) {
	companyDTOs, err := s.BuildCompanyDTOs(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, companyDTO := range companyDTOs {
		if companyDTO.ID != companyID {
			continue
		}
		decisions := s.DecideForCompany(ctx, companyDTO, period)
		if err := s.PersistDecisions(ctx, decisions); err != nil {
			return nil, err
		}
		return decisions, nil
	}

	return nil, repository.ErrNotFound
}

// GetDecisions lists the persisted decisions for every company of the user.
func (s *taService) GetDecisions(ctx context.Context, userID uint) ([]model.TADecision, error) {
	companies, err := s.companyRepo.Get(ctx, dto.GetCompaniesParam{UserID: userID})
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return []model.TADecision{}, nil
	}

	companyIDs := make([]uint, 0, len(companies))
	for _, company := range companies {
		companyIDs = append(companyIDs, company.ID)
	}
	return s.taDecisionRepo.GetByCompanies(ctx, companyIDs)
}

// PersistDecisions upserts the batch concurrently, one row per (company,
// period).
func (s *taService) PersistDecisions(ctx context.Context, decisions []dto.DecisionDTO) error {
	now := time.Now()

	var g errgroup.Group
	g.SetLimit(s.cfg.Worker.MaxConcurrency)
	for _, decision := range decisions {
		decision := decision
		g.Go(func() error {
			return s.taDecisionRepo.Upsert(ctx, &model.TADecision{
				CompanyID:   decision.CompanyID,
				Period:      decision.Period,
				Decision:    decision.Decision,
				K:           decision.K,
				D:           decision.D,
				LastPrice:   decision.LastPrice,
				LastUpdated: now,
			})
		})
	}
	return g.Wait()
}

// CleanupExpired drops stale decision rows past the configured age.
func (s *taService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.taDecisionRepo.DeleteOlderThan(ctx, s.cfg.TA.DecisionExpirationDays)
}
