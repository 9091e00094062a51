package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/internal/repository"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/utils"
)

type BriefcaseService interface {
	GetBriefcase(ctx context.Context, userID uint) (*model.Briefcase, error)
	GetRegistry(ctx context.Context, userID uint, param dto.GetRegistryParam) ([]model.BriefcaseRegistry, error)
	CreateRegistry(ctx context.Context, userID uint, req dto.CreateRegistryRequest) (*model.BriefcaseRegistry, error)
	UpdateRegistry(ctx context.Context, userID, registryID uint, req dto.UpdateRegistryRequest) (*model.BriefcaseRegistry, error)
	DeleteRegistry(ctx context.Context, userID, registryID uint) error
	GetShares(ctx context.Context, userID uint) ([]model.BriefcaseShare, error)
}

type briefcaseService struct {
	logger        *logger.Logger
	briefcaseRepo repository.BriefcaseRepository
	uow           repository.UnitOfWork
}

func NewBriefcaseService(
	log *logger.Logger,
	briefcaseRepo repository.BriefcaseRepository,
	uow repository.UnitOfWork,
) BriefcaseService {
	return &briefcaseService{
		logger:        log,
		briefcaseRepo: briefcaseRepo,
		uow:           uow,
	}
}

func (s *briefcaseService) GetBriefcase(ctx context.Context, userID uint) (*model.Briefcase, error) {
	return s.briefcaseRepo.GetOrCreate(ctx, userID)
}

func (s *briefcaseService) GetRegistry(ctx context.Context, userID uint, param dto.GetRegistryParam) ([]model.BriefcaseRegistry, error) {
	briefcase, err := s.ownedBriefcase(ctx, userID, param.BriefcaseID)
	if err != nil {
		return nil, err
	}
	param.BriefcaseID = briefcase.ID
	return s.briefcaseRepo.GetRegistry(ctx, param)
}

// CreateRegistry appends an immutable transaction record and recomputes the
// derived share count for the touched company, both inside one transaction.
func (s *briefcaseService) CreateRegistry(ctx context.Context, userID uint, req dto.CreateRegistryRequest) (*model.BriefcaseRegistry, error) {
	briefcase, err := s.ownedBriefcase(ctx, userID, req.BriefcaseID)
	if err != nil {
		return nil, err
	}

	createdDate := time.Now()
	if req.CreatedDate != nil {
		createdDate = *req.CreatedDate
	}
	currency := model.CurrencyRUB
	if req.Currency != "" {
		currency = req.Currency
	}

	record := &model.BriefcaseRegistry{
		BriefcaseID: briefcase.ID,
		CompanyID:   req.CompanyID,
		StrategyID:  req.StrategyID,
		Operation:   req.Operation,
		Count:       req.Count,
		Amount:      req.Amount,
		Currency:    currency,
		CreatedDate: createdDate,
	}
	if req.Price != nil {
		record.Price.Decimal = *req.Price
		record.Price.Valid = true
	}

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.briefcaseRepo.CreateRegistry(ctx, record, opts...); err != nil {
			return err
		}
		return s.recalculateShare(ctx, briefcase.ID, record.CompanyID, opts...)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// UpdateRegistry may rebind the company reference, in which case both the
// old and the new company's share counts are recomputed.
func (s *briefcaseService) UpdateRegistry(ctx context.Context, userID, registryID uint, req dto.UpdateRegistryRequest) (*model.BriefcaseRegistry, error) {
	briefcase, err := s.ownedBriefcase(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	record, err := s.briefcaseRepo.FindRegistryByID(ctx, briefcase.ID, registryID)
	if err != nil {
		return nil, err
	}

	previousCompanyID := record.CompanyID
	if req.CompanyID != nil {
		record.CompanyID = *req.CompanyID
	}
	if req.StrategyID != nil {
		record.StrategyID = req.StrategyID
	}
	if req.Count != nil {
		record.Count = req.Count
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
	}
	if req.Price != nil {
		record.Price.Decimal = *req.Price
		record.Price.Valid = true
	}

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.briefcaseRepo.UpdateRegistry(ctx, record, opts...); err != nil {
			return err
		}
		if err := s.recalculateShare(ctx, briefcase.ID, record.CompanyID, opts...); err != nil {
			return err
		}
		if previousCompanyID != record.CompanyID {
			return s.recalculateShare(ctx, briefcase.ID, previousCompanyID, opts...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (s *briefcaseService) DeleteRegistry(ctx context.Context, userID, registryID uint) error {
	briefcase, err := s.ownedBriefcase(ctx, userID, 0)
	if err != nil {
		return err
	}

	record, err := s.briefcaseRepo.FindRegistryByID(ctx, briefcase.ID, registryID)
	if err != nil {
		return err
	}

	return s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.briefcaseRepo.DeleteRegistry(ctx, briefcase.ID, registryID, opts...); err != nil {
			return err
		}
		return s.recalculateShare(ctx, briefcase.ID, record.CompanyID, opts...)
	})
}

func (s *briefcaseService) GetShares(ctx context.Context, userID uint) ([]model.BriefcaseShare, error) {
	briefcase, err := s.briefcaseRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.briefcaseRepo.GetShares(ctx, briefcase.ID)
}

// recalculateShare replays the registry for one (briefcase, company): BUY
// adds, SELL subtracts, DIVIDENDS is ignored. A non-positive total deletes
// the share row. The registry read takes a row lock so concurrent mutations
// of the same pair serialize instead of losing updates.
func (s *briefcaseService) recalculateShare(ctx context.Context, briefcaseID, companyID uint, opts ...utils.DBOption) error {
	lockOpts := append(append([]utils.DBOption{}, opts...), utils.WithLock())
	registries, err := s.briefcaseRepo.GetRegistry(ctx, dto.GetRegistryParam{
		BriefcaseID: briefcaseID,
		CompanyID:   &companyID,
	}, lockOpts...)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var total int64
	for _, registry := range registries {
		if registry.Count == nil {
			continue
		}
		switch registry.Operation {
		case model.OperationBuy:
			total += *registry.Count
		case model.OperationSell:
			total -= *registry.Count
		}
	}

	share, err := s.briefcaseRepo.FindShare(ctx, briefcaseID, companyID, opts...)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if total > 0 {
		if share == nil {
			share = &model.BriefcaseShare{BriefcaseID: briefcaseID, CompanyID: companyID}
		}
		share.Count = total
		return s.briefcaseRepo.SaveShare(ctx, share, opts...)
	}
	if share != nil {
		return s.briefcaseRepo.DeleteShare(ctx, briefcaseID, companyID, opts...)
	}
	return nil
}

// ownedBriefcase resolves the user's briefcase. A non-zero requested ID
// that does not match it is rejected, briefcases are strictly per-user.
func (s *briefcaseService) ownedBriefcase(ctx context.Context, userID, requestedID uint) (*model.Briefcase, error) {
	briefcase, err := s.briefcaseRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if requestedID != 0 && requestedID != briefcase.ID {
		return nil, repository.ErrNotFound
	}
	return briefcase, nil
}
