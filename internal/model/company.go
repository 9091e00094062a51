package model

import "time"

type Company struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Ticker    string     `gorm:"type:varchar(16);uniqueIndex:idx_companies_user_ticker;not null" json:"ticker"`
	Name      string     `gorm:"type:varchar(255)" json:"name"`
	Type      SourceType `gorm:"type:varchar(16);not null;default:MOEX" json:"type"`
	UserID    uint       `gorm:"uniqueIndex:idx_companies_user_ticker;not null" json:"user_id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Stops      []Stop     `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"stops,omitempty"`
	Strategies []Strategy `gorm:"many2many:company_strategies" json:"strategies,omitempty"`
}

func (Company) TableName() string {
	return "companies"
}

// StopForPeriod returns the stop configured for the period, nil when absent.
func (c *Company) StopForPeriod(period Period) *Stop {
	for i := range c.Stops {
		if c.Stops[i].Period == period {
			return &c.Stops[i]
		}
	}
	return nil
}

// Stop is a price floor per (company, period). At most one stop per pair.
type Stop struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CompanyID uint      `gorm:"uniqueIndex:idx_stops_company_period;not null" json:"company_id"`
	Period    Period    `gorm:"type:varchar(4);uniqueIndex:idx_stops_company_period;not null" json:"period"`
	Value     float64   `gorm:"not null" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stop) TableName() string {
	return "stops"
}

type Strategy struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(128);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Companies []Company `gorm:"many2many:company_strategies" json:"companies,omitempty"`
}

func (Strategy) TableName() string {
	return "strategies"
}
