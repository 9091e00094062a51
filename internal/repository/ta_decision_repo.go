package repository

import (
	"context"

	"invest-tracker/internal/model"
	"invest-tracker/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TADecisionRepository interface {
	GetByCompanies(ctx context.Context, companyIDs []uint, opts ...utils.DBOption) ([]model.TADecision, error)
	Upsert(ctx context.Context, decision *model.TADecision, opts ...utils.DBOption) error
	DeleteOlderThan(ctx context.Context, days int, opts ...utils.DBOption) (int64, error)
}

type taDecisionRepository struct {
	db *gorm.DB
}

func NewTADecisionRepository(db *gorm.DB) TADecisionRepository {
	return &taDecisionRepository{db: db}
}

func (r *taDecisionRepository) GetByCompanies(ctx context.Context, companyIDs []uint, opts ...utils.DBOption) ([]model.TADecision, error) {
	var decisions []model.TADecision
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("company_id IN (?)", companyIDs).
		Find(&decisions).Error
	if err != nil {
		return nil, err
	}
	return decisions, nil
}

// Upsert keeps one row per company and period, refreshed in place.
func (r *taDecisionRepository) Upsert(ctx context.Context, decision *model.TADecision, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}, {Name: "period"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"decision", "k", "d", "last_price", "last_updated",
			}),
		}).
		Create(decision).Error
}

func (r *taDecisionRepository) DeleteOlderThan(ctx context.Context, days int, opts ...utils.DBOption) (int64, error) {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("last_updated < NOW() - make_interval(days => ?)", days).
		Delete(&model.TADecision{})
	return res.RowsAffected, res.Error
}
