package service

import (
	"context"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/internal/repository"
)

type CompanyService interface {
	List(ctx context.Context, userID uint) ([]model.Company, error)
	Get(ctx context.Context, userID, id uint) (*model.Company, error)
	Create(ctx context.Context, req dto.CreateCompanyRequest) (*model.Company, error)
	Update(ctx context.Context, userID, id uint, req dto.UpdateCompanyRequest) (*model.Company, error)
	Delete(ctx context.Context, userID, id uint) error
	CreateStop(ctx context.Context, userID, companyID uint, req dto.CreateStopRequest) (*model.Stop, error)
	DeleteStop(ctx context.Context, userID, companyID uint, period model.Period) error
}

type companyService struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository) CompanyService {
	return &companyService{companyRepo: companyRepo}
}

func (s *companyService) List(ctx context.Context, userID uint) ([]model.Company, error) {
	return s.companyRepo.Get(ctx, dto.GetCompaniesParam{UserID: userID})
}

func (s *companyService) Get(ctx context.Context, userID, id uint) (*model.Company, error) {
	return s.companyRepo.FindByID(ctx, userID, id)
}

func (s *companyService) Create(ctx context.Context, req dto.CreateCompanyRequest) (*model.Company, error) {
	companyType := req.Type
	if companyType == "" {
		companyType = model.SourceMoex
	}
	name := req.Name
	if name == "" {
		name = req.Ticker
	}

	company := &model.Company{
		Ticker: req.Ticker,
		Name:   name,
		Type:   companyType,
		UserID: req.UserID,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *companyService) Update(ctx context.Context, userID, id uint, req dto.UpdateCompanyRequest) (*model.Company, error) {
	company, err := s.companyRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Type != nil {
		company.Type = *req.Type
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *companyService) Delete(ctx context.Context, userID, id uint) error {
	return s.companyRepo.Delete(ctx, userID, id)
}

func (s *companyService) CreateStop(ctx context.Context, userID, companyID uint, req dto.CreateStopRequest) (*model.Stop, error) {
	if _, err := s.companyRepo.FindByID(ctx, userID, companyID); err != nil {
		return nil, err
	}

	stop := &model.Stop{
		CompanyID: companyID,
		Period:    req.Period,
		Value:     req.Value,
	}
	if err := s.companyRepo.CreateStop(ctx, stop); err != nil {
		return nil, err
	}
	return stop, nil
}

func (s *companyService) DeleteStop(ctx context.Context, userID, companyID uint, period model.Period) error {
	if _, err := s.companyRepo.FindByID(ctx, userID, companyID); err != nil {
		return err
	}
	return s.companyRepo.DeleteStop(ctx, companyID, period)
}
