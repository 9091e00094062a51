package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Briefcase is a user's portfolio container. One per user by convention.
type Briefcase struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	UserID    uint                `gorm:"not null;index" json:"user_id"`
	FillUp    decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"fill_up"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Briefcase) TableName() string {
	return "briefcases"
}

// BriefcaseRegistry is an immutable transaction record: a buy, a sell or a
// dividend payment for one company within a briefcase.
type BriefcaseRegistry struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	BriefcaseID uint              `gorm:"not null;index" json:"briefcase_id"`
	CompanyID   uint              `gorm:"not null;index" json:"company_id"`
	StrategyID  *uint             `json:"strategy_id,omitempty"`
	Operation   RegistryOperation `gorm:"type:varchar(16);not null" json:"operation"`
	Count       *int64            `json:"count,omitempty"`
	Amount      decimal.Decimal   `gorm:"type:numeric(18,4);not null" json:"amount"`
	Price       decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"price"`
	Currency    Currency          `gorm:"type:varchar(3);not null;default:RUB" json:"currency"`
	CreatedDate time.Time         `gorm:"not null;index" json:"created_date"`

	Company  Company   `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Strategy *Strategy `gorm:"foreignKey:StrategyID" json:"strategy,omitempty"`
}

func (BriefcaseRegistry) TableName() string {
	return "briefcase_registry"
}

// BriefcaseShare is the materialized net share count per (briefcase, company),
// recomputed from the registry on every mutation. Rows with a non-positive
// count are deleted instead of stored.
type BriefcaseShare struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BriefcaseID uint      `gorm:"uniqueIndex:idx_shares_briefcase_company;not null" json:"briefcase_id"`
	CompanyID   uint      `gorm:"uniqueIndex:idx_shares_briefcase_company;not null" json:"company_id"`
	Count       int64     `gorm:"not null" json:"count"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BriefcaseShare) TableName() string {
	return "briefcase_shares"
}
