package repository

import (
	"context"
	"errors"

	"invest-tracker/internal/model"
	"invest-tracker/pkg/utils"

	"gorm.io/gorm"
)

type StrategyRepository interface {
	GetByUser(ctx context.Context, userID uint) ([]model.Strategy, error)
	FindByID(ctx context.Context, userID, id uint) (*model.Strategy, error)
	Create(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error
	Update(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error
	Delete(ctx context.Context, userID, id uint, opts ...utils.DBOption) error
}

type strategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository(db *gorm.DB) StrategyRepository {
	return &strategyRepository{db: db}
}

func (r *strategyRepository) GetByUser(ctx context.Context, userID uint) ([]model.Strategy, error) {
	var strategies []model.Strategy
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&strategies).Error
	if err != nil {
		return nil, err
	}
	return strategies, nil
}

func (r *strategyRepository) FindByID(ctx context.Context, userID, id uint) (*model.Strategy, error) {
	var strategy model.Strategy
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&strategy, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &strategy, nil
}

func (r *strategyRepository) Create(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(strategy).Error
}

func (r *strategyRepository) Update(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(strategy).Error
}

func (r *strategyRepository) Delete(ctx context.Context, userID, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("user_id = ?", userID).
		Delete(&model.Strategy{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
