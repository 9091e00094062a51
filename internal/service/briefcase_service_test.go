package service

import (
	"context"
	"testing"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/internal/repository"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeBriefcaseRepo is an in-memory stand-in keyed like the real tables.
type fakeBriefcaseRepo struct {
	briefcase  model.Briefcase
	registry   []model.BriefcaseRegistry
	shares     map[uint]model.BriefcaseShare // by company ID
	nextRegID  uint
}

func newFakeBriefcaseRepo(userID uint) *fakeBriefcaseRepo {
	return &fakeBriefcaseRepo{
		briefcase: model.Briefcase{ID: 1, UserID: userID},
		shares:    make(map[uint]model.BriefcaseShare),
		nextRegID: 1,
	}
}

func (f *fakeBriefcaseRepo) GetOrCreate(ctx context.Context, userID uint, opts ...utils.DBOption) (*model.Briefcase, error) {
	briefcase := f.briefcase
	return &briefcase, nil
}

func (f *fakeBriefcaseRepo) Update(ctx context.Context, briefcase *model.Briefcase, opts ...utils.DBOption) error {
	f.briefcase = *briefcase
	return nil
}

func (f *fakeBriefcaseRepo) GetRegistry(ctx context.Context, param dto.GetRegistryParam, opts ...utils.DBOption) ([]model.BriefcaseRegistry, error) {
	var records []model.BriefcaseRegistry
	for _, record := range f.registry {
		if record.BriefcaseID != param.BriefcaseID {
			continue
		}
		if param.CompanyID != nil && record.CompanyID != *param.CompanyID {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (f *fakeBriefcaseRepo) FindRegistryByID(ctx context.Context, briefcaseID, id uint, opts ...utils.DBOption) (*model.BriefcaseRegistry, error) {
	for _, record := range f.registry {
		if record.ID == id && record.BriefcaseID == briefcaseID {
			found := record
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBriefcaseRepo) CreateRegistry(ctx context.Context, record *model.BriefcaseRegistry, opts ...utils.DBOption) error {
	record.ID = f.nextRegID
	f.nextRegID++
	f.registry = append(f.registry, *record)
	return nil
}

func (f *fakeBriefcaseRepo) UpdateRegistry(ctx context.Context, record *model.BriefcaseRegistry, opts ...utils.DBOption) error {
	for i := range f.registry {
		if f.registry[i].ID == record.ID {
			f.registry[i] = *record
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeBriefcaseRepo) DeleteRegistry(ctx context.Context, briefcaseID, id uint, opts ...utils.DBOption) error {
	for i := range f.registry {
		if f.registry[i].ID == id && f.registry[i].BriefcaseID == briefcaseID {
			f.registry = append(f.registry[:i], f.registry[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeBriefcaseRepo) GetShares(ctx context.Context, briefcaseID uint, opts ...utils.DBOption) ([]model.BriefcaseShare, error) {
	var shares []model.BriefcaseShare
	for _, share := range f.shares {
		shares = append(shares, share)
	}
	return shares, nil
}

func (f *fakeBriefcaseRepo) FindShare(ctx context.Context, briefcaseID, companyID uint, opts ...utils.DBOption) (*model.BriefcaseShare, error) {
	share, ok := f.shares[companyID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &share, nil
}

func (f *fakeBriefcaseRepo) SaveShare(ctx context.Context, share *model.BriefcaseShare, opts ...utils.DBOption) error {
	f.shares[share.CompanyID] = *share
	return nil
}

func (f *fakeBriefcaseRepo) DeleteShare(ctx context.Context, briefcaseID, companyID uint, opts ...utils.DBOption) error {
	delete(f.shares, companyID)
	return nil
}

// fakeUnitOfWork runs the callback without a transaction.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Begin() *gorm.DB    { return nil }
func (fakeUnitOfWork) Commit() error      { return nil }
func (fakeUnitOfWork) Rollback() error    { return nil }
func (fakeUnitOfWork) Run(fn func(opts ...utils.DBOption) error) error {
	return fn()
}

func count(n int64) *int64 { return &n }

func createRegistryReq(companyID uint, op model.RegistryOperation, n *int64) dto.CreateRegistryRequest {
	return dto.CreateRegistryRequest{
		BriefcaseID: 1,
		CompanyID:   companyID,
		Operation:   op,
		Count:       n,
		Amount:      decimal.NewFromInt(1000),
	}
}

func TestCreateRegistryRecomputesShares(t *testing.T) {
	repo := newFakeBriefcaseRepo(7)
	svc := NewBriefcaseService(logger.NewNop(), repo, fakeUnitOfWork{})
	ctx := context.Background()

	_, err := svc.CreateRegistry(ctx, 7, createRegistryReq(10, model.OperationBuy, count(5)))
	require.NoError(t, err)
	_, err = svc.CreateRegistry(ctx, 7, createRegistryReq(10, model.OperationBuy, count(3)))
	require.NoError(t, err)
	_, err = svc.CreateRegistry(ctx, 7, createRegistryReq(10, model.OperationSell, count(2)))
	require.NoError(t, err)

	share, ok := repo.shares[10]
	require.True(t, ok)
	assert.Equal(t, int64(6), share.Count)
}

func TestCreateRegistryDividendsDoNotAffectShares(t *testing.T) {
	repo := newFakeBriefcaseRepo(7)
	svc := NewBriefcaseService(logger.NewNop(), repo, fakeUnitOfWork{})
	ctx := context.Background()

	_, err := svc.CreateRegistry(ctx, 7, createRegistryReq(10, model.OperationBuy, count(4)))
	require.NoError(t, err)
	_, err = svc.CreateRegistry(ctx, 7, createRegistryReq(10, model.OperationDividends, nil))
	require.NoError(t, err)

	share, ok := repo.shares[10]
	require.True(t, ok)
	assert.Equal(t, int64(4), share.Count)
}

func TestSellingEverythingDeletesShareRow(t *testing.T) {
	repo := newFakeBriefcaseRepo(7)
	svc := NewBriefcaseService(logger.NewNop(), repo, fakeUnitOfWork{})
	ctx := context.Background()

	_, err := svc.CreateRegistry(ctx, 7, createRegistryReq(10, model.OperationBuy, count(5)))
	require.NoError(t, err)
	_, err = svc.CreateRegistry(ctx, 7, createRegistryReq(10, model.OperationSell, count(5)))
	require.NoError(t, err)

	_, ok := repo.shares[10]
	assert.False(t, ok)
}

func TestUpdateRegistryRebindsCompany(t *testing.T) {
	repo := newFakeBriefcaseRepo(7)
	svc := NewBriefcaseService(logger.NewNop(), repo, fakeUnitOfWork{})
	ctx := context.Background()

	record, err := svc.CreateRegistry(ctx, 7, createRegistryReq(10, model.OperationBuy, count(5)))
	require.NoError(t, err)
	require.Equal(t, int64(5), repo.shares[10].Count)

	newCompany := uint(20)
	_, err = svc.UpdateRegistry(ctx, 7, record.ID, dto.UpdateRegistryRequest{CompanyID: &newCompany})
	require.NoError(t, err)

	_, ok := repo.shares[10]
	assert.False(t, ok, "old company share should be gone")
	assert.Equal(t, int64(5), repo.shares[20].Count)
}

func TestDeleteRegistryRecomputesShares(t *testing.T) {
	repo := newFakeBriefcaseRepo(7)
	svc := NewBriefcaseService(logger.NewNop(), repo, fakeUnitOfWork{})
	ctx := context.Background()

	record, err := svc.CreateRegistry(ctx, 7, createRegistryReq(10, model.OperationBuy, count(5)))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRegistry(ctx, 7, record.ID))

	_, ok := repo.shares[10]
	assert.False(t, ok)
}

func TestCreateRegistryRejectsForeignBriefcase(t *testing.T) {
	repo := newFakeBriefcaseRepo(7)
	svc := NewBriefcaseService(logger.NewNop(), repo, fakeUnitOfWork{})

	req := createRegistryReq(10, model.OperationBuy, count(5))
	req.BriefcaseID = 99

	_, err := svc.CreateRegistry(context.Background(), 7, req)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
