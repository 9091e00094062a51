package repository

import (
	"context"
	"errors"
	"strings"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/pkg/utils"

	"gorm.io/gorm"
)

type BriefcaseRepository interface {
	GetOrCreate(ctx context.Context, userID uint, opts ...utils.DBOption) (*model.Briefcase, error)
	Update(ctx context.Context, briefcase *model.Briefcase, opts ...utils.DBOption) error

	GetRegistry(ctx context.Context, param dto.GetRegistryParam, opts ...utils.DBOption) ([]model.BriefcaseRegistry, error)
	FindRegistryByID(ctx context.Context, briefcaseID, id uint, opts ...utils.DBOption) (*model.BriefcaseRegistry, error)
	CreateRegistry(ctx context.Context, record *model.BriefcaseRegistry, opts ...utils.DBOption) error
	UpdateRegistry(ctx context.Context, record *model.BriefcaseRegistry, opts ...utils.DBOption) error
	DeleteRegistry(ctx context.Context, briefcaseID, id uint, opts ...utils.DBOption) error

	GetShares(ctx context.Context, briefcaseID uint, opts ...utils.DBOption) ([]model.BriefcaseShare, error)
	FindShare(ctx context.Context, briefcaseID, companyID uint, opts ...utils.DBOption) (*model.BriefcaseShare, error)
	SaveShare(ctx context.Context, share *model.BriefcaseShare, opts ...utils.DBOption) error
	DeleteShare(ctx context.Context, briefcaseID, companyID uint, opts ...utils.DBOption) error
}

type briefcaseRepository struct {
	db *gorm.DB
}

func NewBriefcaseRepository(db *gorm.DB) BriefcaseRepository {
	return &briefcaseRepository{db: db}
}

// GetOrCreate returns the user's briefcase, creating an empty one on first
// access. Each user owns exactly one briefcase.
func (r *briefcaseRepository) GetOrCreate(ctx context.Context, userID uint, opts ...utils.DBOption) (*model.Briefcase, error) {
	var briefcase model.Briefcase
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	err := db.Where("user_id = ?", userID).First(&briefcase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		briefcase = model.Briefcase{UserID: userID}
		if err := db.Create(&briefcase).Error; err != nil {
			return nil, err
		}
		return &briefcase, nil
	}
	if err != nil {
		return nil, err
	}
	return &briefcase, nil
}

func (r *briefcaseRepository) Update(ctx context.Context, briefcase *model.Briefcase, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(briefcase).Error
}

func (r *briefcaseRepository) GetRegistry(ctx context.Context, param dto.GetRegistryParam, opts ...utils.DBOption) ([]model.BriefcaseRegistry, error) {
	var records []model.BriefcaseRegistry

	qFilter := []string{"briefcase_id = ?"}
	qFilterParam := []interface{}{param.BriefcaseID}

	if param.CompanyID != nil {
		qFilter = append(qFilter, "company_id = ?")
		qFilterParam = append(qFilterParam, *param.CompanyID)
	}

	if param.StrategyID != nil {
		qFilter = append(qFilter, "strategy_id = ?")
		qFilterParam = append(qFilterParam, *param.StrategyID)
	}

	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where(strings.Join(qFilter, " AND "), qFilterParam...).
		Order("created_date ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *briefcaseRepository) FindRegistryByID(ctx context.Context, briefcaseID, id uint, opts ...utils.DBOption) (*model.BriefcaseRegistry, error) {
	var record model.BriefcaseRegistry
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("briefcase_id = ?", briefcaseID).
		First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *briefcaseRepository) CreateRegistry(ctx context.Context, record *model.BriefcaseRegistry, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(record).Error
}

func (r *briefcaseRepository) UpdateRegistry(ctx context.Context, record *model.BriefcaseRegistry, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(record).Error
}

func (r *briefcaseRepository) DeleteRegistry(ctx context.Context, briefcaseID, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("briefcase_id = ?", briefcaseID).
		Delete(&model.BriefcaseRegistry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *briefcaseRepository) GetShares(ctx context.Context, briefcaseID uint, opts ...utils.DBOption) ([]model.BriefcaseShare, error) {
	var shares []model.BriefcaseShare
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("briefcase_id = ?", briefcaseID).
		Find(&shares).Error
	if err != nil {
		return nil, err
	}
	return shares, nil
}

func (r *briefcaseRepository) FindShare(ctx context.Context, briefcaseID, companyID uint, opts ...utils.DBOption) (*model.BriefcaseShare, error) {
	var share model.BriefcaseShare
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("briefcase_id = ? AND company_id = ?", briefcaseID, companyID).
		First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (r *briefcaseRepository) SaveShare(ctx context.Context, share *model.BriefcaseShare, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(share).Error
}

func (r *briefcaseRepository) DeleteShare(ctx context.Context, briefcaseID, companyID uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("briefcase_id = ? AND company_id = ?", briefcaseID, companyID).
		Delete(&model.BriefcaseShare{}).Error
}
