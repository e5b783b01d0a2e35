package service

import (
	"context"
	"errors"
	"testing"

	"rishta/internal/models"
	"rishta/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accountRepoStub is a stub for repository.AccountRepository.
type accountRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.Account, error)
	getByEmailFn func(context.Context, string) (*models.Account, error)
	createFn     func(context.Context, *models.Account) error
	updateFn     func(context.Context, *models.Account) error
	deleteFn     func(context.Context, uint) error
	listFn       func(context.Context, repository.RegistrationFilter, int, int) ([]models.Account, error)
}

func (s *accountRepoStub) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.getByIDFn(ctx, id)
}
func (s *accountRepoStub) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *accountRepoStub) Create(ctx context.Context, account *models.Account) error {
	return s.createFn(ctx, account)
}
func (s *accountRepoStub) Update(ctx context.Context, account *models.Account) error {
	return s.updateFn(ctx, account)
}
func (s *accountRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *accountRepoStub) List(ctx context.Context, filter repository.RegistrationFilter, limit, offset int) ([]models.Account, error) {
	return s.listFn(ctx, filter, limit, offset)
}

func noopAccountRepo() *accountRepoStub {
	return &accountRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.Account, error) { return &models.Account{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.Account, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.Account) error { return nil },
		updateFn:     func(_ context.Context, _ *models.Account) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		listFn: func(_ context.Context, _ repository.RegistrationFilter, _, _ int) ([]models.Account, error) {
			return nil, nil
		},
	}
}

// listingRepoStub is a stub for repository.ListingRepository.
type listingRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.Listing, error)
	getByAccountIDFn func(context.Context, uint) (*models.Listing, error)
	listFn           func(context.Context, repository.MatchFilter, int, int) ([]models.Listing, error)
}

func (s *listingRepoStub) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	return s.getByIDFn(ctx, id)
}
func (s *listingRepoStub) GetByAccountID(ctx context.Context, accountID uint) (*models.Listing, error) {
	return s.getByAccountIDFn(ctx, accountID)
}
func (s *listingRepoStub) List(ctx context.Context, filter repository.MatchFilter, limit, offset int) ([]models.Listing, error) {
	return s.listFn(ctx, filter, limit, offset)
}

func noopListingRepo() *listingRepoStub {
	return &listingRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Listing, error) {
			return &models.Listing{ID: id}, nil
		},
		getByAccountIDFn: func(_ context.Context, _ uint) (*models.Listing, error) { return nil, nil },
		listFn: func(_ context.Context, _ repository.MatchFilter, _, _ int) ([]models.Listing, error) {
			return nil, nil
		},
	}
}

// unlockRepoStub is a stub for repository.UnlockRepository.
type unlockRepoStub struct {
	hasFn        func(context.Context, uint, uint) (bool, error)
	listingIDsFn func(context.Context, uint) ([]uint, error)
	recordFn     func(context.Context, uint, uint) error
	spendFn      func(context.Context, uint, uint) (int, error)
}

func (s *unlockRepoStub) Has(ctx context.Context, accountID, listingID uint) (bool, error) {
	return s.hasFn(ctx, accountID, listingID)
}
func (s *unlockRepoStub) ListingIDs(ctx context.Context, accountID uint) ([]uint, error) {
	return s.listingIDsFn(ctx, accountID)
}
func (s *unlockRepoStub) Record(ctx context.Context, accountID, listingID uint) error {
	return s.recordFn(ctx, accountID, listingID)
}
func (s *unlockRepoStub) Spend(ctx context.Context, accountID, listingID uint) (int, error) {
	return s.spendFn(ctx, accountID, listingID)
}

func noopUnlockRepo() *unlockRepoStub {
	return &unlockRepoStub{
		hasFn:        func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listingIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		recordFn:     func(_ context.Context, _, _ uint) error { return nil },
		spendFn:      func(_ context.Context, _, _ uint) (int, error) { return 0, nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
