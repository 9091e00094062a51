package dto

// GetCompaniesParam filters the company listing. Zero values mean "no
// filter" except UserID, which callers always set.
type GetCompaniesParam struct {
	UserID  uint
	IDs     []uint
	Tickers []string
}

// GetRegistryParam filters briefcase registry records.
type GetRegistryParam struct {
	BriefcaseID uint
	CompanyID   *uint
	StrategyID  *uint
}
