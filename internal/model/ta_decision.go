package model

import "time"

// TADecision is the persisted outcome of a signal run, one row per
// (company, period), updated in place on every run.
type TADecision struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	CompanyID   uint     `gorm:"uniqueIndex:idx_ta_decisions_company_period;not null" json:"company_id"`
	Period      Period   `gorm:"type:varchar(4);uniqueIndex:idx_ta_decisions_company_period;not null" json:"period"`
	Decision    Decision `gorm:"type:varchar(16);not null" json:"decision"`
	K           *float64 `json:"k,omitempty"`
	D           *float64 `json:"d,omitempty"`
	LastPrice   *float64 `json:"last_price,omitempty"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`

	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (TADecision) TableName() string {
	return "ta_decisions"
}
