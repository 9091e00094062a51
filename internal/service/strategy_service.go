package service

import (
	"context"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/internal/repository"
)

type StrategyService interface {
	List(ctx context.Context, userID uint) ([]model.Strategy, error)
	Create(ctx context.Context, req dto.CreateStrategyRequest) (*model.Strategy, error)
	Delete(ctx context.Context, userID, id uint) error
}

type strategyService struct {
	strategyRepo repository.StrategyRepository
}

func NewStrategyService(strategyRepo repository.StrategyRepository) StrategyService {
	return &strategyService{strategyRepo: strategyRepo}
}

func (s *strategyService) List(ctx context.Context, userID uint) ([]model.Strategy, error) {
	return s.strategyRepo.GetByUser(ctx, userID)
}

func (s *strategyService) Create(ctx context.Context, req dto.CreateStrategyRequest) (*model.Strategy, error) {
	strategy := &model.Strategy{
		Name:        req.Name,
		Description: req.Description,
		UserID:      req.UserID,
	}
	if err := s.strategyRepo.Create(ctx, strategy); err != nil {
		return nil, err
	}
	return strategy, nil
}

func (s *strategyService) Delete(ctx context.Context, userID, id uint) error {
	return s.strategyRepo.Delete(ctx, userID, id)
}
