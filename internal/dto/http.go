package dto

import (
	"time"

	"invest-tracker/internal/model"

	"github.com/shopspring/decimal"
)

type GenerateRequest struct {
	UserID          uint         `json:"user_id" validate:"required"`
	Period          model.Period `json:"period" validate:"required,oneof=D W M ALL"`
	SendMessage     bool         `json:"send_message"`
	UpdateDB        bool         `json:"update_db"`
	SendTestMessage bool         `json:"send_test_message"`
}

type GenerateCompanyRequest struct {
	Period model.Period `json:"period" validate:"required,oneof=D W M ALL"`
	UserID uint         `json:"user_id" validate:"required"`
}

type CreateCompanyRequest struct {
	Ticker string           `json:"ticker" validate:"required,max=16"`
	Name   string           `json:"name"`
	Type   model.SourceType `json:"type" validate:"omitempty,oneof=MOEX YAHOO"`
	UserID uint             `json:"user_id" validate:"required"`
}

type UpdateCompanyRequest struct {
	Name *string           `json:"name"`
	Type *model.SourceType `json:"type" validate:"omitempty,oneof=MOEX YAHOO"`
}

type CreateStopRequest struct {
	Period model.Period `json:"period" validate:"required,oneof=D W M"`
	Value  float64      `json:"value" validate:"required,gt=0"`
}

type CreateStrategyRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description"`
	UserID      uint   `json:"user_id" validate:"required"`
}

type CreateRegistryRequest struct {
	BriefcaseID uint                    `json:"briefcase_id" validate:"required"`
	CompanyID   uint                    `json:"company_id" validate:"required"`
	StrategyID  *uint                   `json:"strategy_id"`
	Operation   model.RegistryOperation `json:"operation" validate:"required,oneof=BUY SELL DIVIDENDS"`
	Count       *int64                  `json:"count" validate:"required_unless=Operation DIVIDENDS,omitempty,gt=0"`
	Amount      decimal.Decimal         `json:"amount" validate:"required"`
	Price       *decimal.Decimal        `json:"price"`
	Currency    model.Currency          `json:"currency" validate:"omitempty,oneof=RUB USD EUR"`
	CreatedDate *time.Time              `json:"created_date"`
}

type UpdateRegistryRequest struct {
	CompanyID  *uint            `json:"company_id"`
	StrategyID *uint            `json:"strategy_id"`
	Count      *int64           `json:"count" validate:"omitempty,gt=0"`
	Amount     *decimal.Decimal `json:"amount"`
	Price      *decimal.Decimal `json:"price"`
}
