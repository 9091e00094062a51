package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/pkg/utils"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	Get(ctx context.Context, param dto.GetCompaniesParam, opts ...utils.DBOption) ([]model.Company, error)
	FindByID(ctx context.Context, userID, id uint) (*model.Company, error)
	Create(ctx context.Context, company *model.Company, opts ...utils.DBOption) error
	Update(ctx context.Context, company *model.Company, opts ...utils.DBOption) error
	Delete(ctx context.Context, userID, id uint, opts ...utils.DBOption) error
	CreateStop(ctx context.Context, stop *model.Stop, opts ...utils.DBOption) error
	DeleteStop(ctx context.Context, companyID uint, period model.Period, opts ...utils.DBOption) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Get(ctx context.Context, param dto.GetCompaniesParam, opts ...utils.DBOption) ([]model.Company, error) {
	var companies []model.Company

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if param.UserID != 0 {
		qFilter = append(qFilter, "user_id = ?")
		qFilterParam = append(qFilterParam, param.UserID)
	}

	if len(param.IDs) > 0 {
		qFilter = append(qFilter, "id IN (?)")
		qFilterParam = append(qFilterParam, param.IDs)
	}

	if len(param.Tickers) > 0 {
		qFilter = append(qFilter, "ticker IN (?)")
		qFilterParam = append(qFilterParam, param.Tickers)
	}

	if len(qFilter) == 0 {
		return nil, fmt.Errorf("no filter provided")
	}

	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Preload("Stops").
		Where(strings.Join(qFilter, " AND "), qFilterParam...).
		Order("ticker ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}

	return companies, nil
}

func (r *companyRepository) FindByID(ctx context.Context, userID, id uint) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Preload("Stops").
		Preload("Strategies").
		Where("user_id = ?", userID).
		First(&company, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(company).Error
}

func (r *companyRepository) Update(ctx context.Context, company *model.Company, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(company).Error
}

func (r *companyRepository) Delete(ctx context.Context, userID, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("user_id = ?", userID).
		Delete(&model.Company{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *companyRepository) CreateStop(ctx context.Context, stop *model.Stop, opts ...utils.DBOption) error {
	var count int64
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Stop{}).
		Where("company_id = ? AND period = ?", stop.CompanyID, stop.Period).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateStop
	}

	// The count check races with concurrent creates; the unique index on
	// (company_id, period) is the real guard.
	err = utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(stop).Error
	if isUniqueViolation(err) {
		return ErrDuplicateStop
	}
	return err
}

func (r *companyRepository) DeleteStop(ctx context.Context, companyID uint, period model.Period, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("company_id = ? AND period = ?", companyID, period).
		Delete(&model.Stop{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
