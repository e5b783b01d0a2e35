package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rishta/internal/cache"
	"rishta/internal/models"
	"rishta/internal/observability"
	"rishta/internal/repository"

	"gorm.io/gorm"
)

// ApprovalService implements the admin approval workflow: assigning a package
// tier to a pending account and materializing its public listing in one
// transaction.
type ApprovalService struct {
	db       *gorm.DB
	accounts repository.AccountRepository
}

// ApprovedResult reports the grant applied by a successful approval.
type ApprovedResult struct {
	AccountID uint        `json:"account_id"`
	Tier      models.Tier `json:"tier"`
	Credits   int         `json:"credits"`
	Expiry    time.Time   `json:"expiry"`
	ListingID uint        `json:"listing_id"`
}

// NewApprovalService creates an ApprovalService. The raw DB handle is needed
// because approval must update the account and insert the listing atomically.
func NewApprovalService(db *gorm.DB, accounts repository.AccountRepository) *ApprovalService {
	return &ApprovalService{db: db, accounts: accounts}
}

// Approve flips a pending account to approved with the given tier and creates
// its listing snapshot. Re-approving fails with ALREADY_APPROVED and leaves
// the first approval's grant untouched. The listing's unique account index
// backs the approved-flag check up under concurrent retries.
func (s *ApprovalService) Approve(ctx context.Context, accountID uint, tierName string, now time.Time) (*ApprovedResult, error) {
	tier, err := models.ParseTier(tierName)
	if err != nil {
		return nil, err
	}

	var result ApprovedResult
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Account", accountID)
			}
			return models.NewInternalError(err)
		}
		if account.IsApproved {
			return models.NewAlreadyApprovedError(accountID)
		}

		AssignPackage(&account, tier, now)
		if err := tx.Save(&account).Error; err != nil {
			return models.NewInternalError(err)
		}

		listing := listingSnapshot(&account)
		if err := tx.Create(listing).Error; err != nil {
			return models.NewInternalError(err)
		}

		result = ApprovedResult{
			AccountID: account.ID,
			Tier:      tier,
			Credits:   account.Credits,
			Expiry:    *account.PackageExpiry,
			ListingID: listing.ID,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	cache.InvalidateAccount(ctx, accountID)
	cache.InvalidateMatchFeeds(ctx)
	observability.Approvals.WithLabelValues(string(tier)).Inc()
	return &result, nil
}

// ListRegistrations returns accounts for the admin dashboard, optionally
// pending-only and bounded to a recent time range.
func (s *ApprovalService) ListRegistrations(ctx context.Context, filter repository.RegistrationFilter, limit, offset int) ([]models.Account, error) {
	return s.accounts.List(ctx, filter, limit, offset)
}

// DeleteRegistration removes an account together with its listing and unlock
// rows.
func (s *ApprovalService) DeleteRegistration(ctx context.Context, accountID uint) error {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, accountID)
}

// listingSnapshot denormalizes the account's demographic fields into a fresh
// listing, the way the public feed will serve them.
func listingSnapshot(account *models.Account) *models.Listing {
	mainImage := account.MainImage
	if mainImage == "" && len(account.Images) > 0 {
		mainImage = account.Images[0]
	}

	caste := account.Caste
	if caste == "" {
		caste = "New"
	}
	city := account.City
	if city == "" {
		city = "Pakistan"
	}

	return &models.Listing{
		AccountID:     account.ID,
		Title:         fmt.Sprintf("%s Rishta - %s", caste, city),
		Name:          account.Name,
		FatherName:    account.FatherName,
		Phone:         account.Phone,
		Age:           account.Age,
		Gender:        account.Gender,
		City:          account.City,
		Caste:         account.Caste,
		Sect:          account.Sect,
		Religion:      account.Religion,
		Nationality:   account.Nationality,
		MotherTongue:  account.MotherTongue,
		Height:        account.Height,
		Weight:        account.Weight,
		MaritalStatus: account.MaritalStatus,
		Disability:    account.Disability,
		Education:     account.Education,
		Profession:    account.Occupation,
		MonthlyIncome: account.MonthlyIncome,
		HouseType:     account.HouseType,
		HouseSize:     account.HouseSize,
		About:         account.About,
		Requirements:  account.Requirements,
		FamilyDetails: account.FamilyDetails,
		MainImage:     mainImage,
		Gallery:       account.Images,
	}
}
