package repository

import (
	"context"
	"errors"

	"rishta/internal/cache"
	"rishta/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UnlockRepository persists the append-only unlock set and performs the
// credit-spending write. The spend path is a single transaction combining the
// unlock-row insert with a conditional decrement, so the credits >= 0
// invariant holds even with multiple service instances on one database.
type UnlockRepository interface {
	Has(ctx context.Context, accountID, listingID uint) (bool, error)
	ListingIDs(ctx context.Context, accountID uint) ([]uint, error)
	// Record appends to the unlock set without touching credits (admin and
	// unlimited-tier viewers) and bumps the viewer's viewed counter.
	// Re-recording an existing pair is a no-op.
	Record(ctx context.Context, accountID, listingID uint) error
	// Spend appends to the unlock set, decrements one credit and bumps the
	// viewer's viewed counter, returning the remaining balance. Fails with
	// INSUFFICIENT_CREDITS when the conditional decrement matches no row.
	Spend(ctx context.Context, accountID, listingID uint) (int, error)
}

type unlockRepository struct {
	db *gorm.DB
}

// NewUnlockRepository returns a new UnlockRepository implementation.
func NewUnlockRepository(db *gorm.DB) UnlockRepository {
	return &unlockRepository{db: db}
}

func (r *unlockRepository) Has(ctx context.Context, accountID, listingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProfileUnlock{}).
		Where("account_id = ? AND listing_id = ?", accountID, listingID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *unlockRepository) ListingIDs(ctx context.Context, accountID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ProfileUnlock{}).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Pluck("listing_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *unlockRepository) Record(ctx context.Context, accountID, listingID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unlock := models.ProfileUnlock{AccountID: accountID, ListingID: listingID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&unlock)
		if res.Error != nil {
			return res.Error
		}
		// Re-recording an existing pair is not a new view.
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Account{}).
			Where("id = ?", accountID).
			UpdateColumn("viewed_count", gorm.Expr("viewed_count + ?", 1)).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAccount(ctx, accountID)
	return nil
}

func (r *unlockRepository) Spend(ctx context.Context, accountID, listingID uint) (int, error) {
	var remaining int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unlock := models.ProfileUnlock{AccountID: accountID, ListingID: listingID}
		if err := tx.Create(&unlock).Error; err != nil {
			if isUniqueConstraintError(err) {
				// Concurrent unlock of the same pair: the other writer paid.
				return errAlreadyRecorded
			}
			return err
		}

		res := tx.Model(&models.Account{}).
			Where("id = ? AND credits > 0", accountID).
			UpdateColumns(map[string]any{
				"credits":      gorm.Expr("credits - ?", 1),
				"viewed_count": gorm.Expr("viewed_count + ?", 1),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewInsufficientCreditsError()
		}

		var account models.Account
		if err := tx.Select("credits").First(&account, accountID).Error; err != nil {
			return err
		}
		remaining = account.Credits
		return nil
	})

	if errors.Is(err, errAlreadyRecorded) {
		var account models.Account
		if gerr := r.db.WithContext(ctx).Select("credits").First(&account, accountID).Error; gerr != nil {
			return 0, models.NewInternalError(gerr)
		}
		return account.Credits, models.ErrUnlockRaced
	}
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return 0, appErr
		}
		return 0, models.NewInternalError(err)
	}

	cache.InvalidateAccount(ctx, accountID)
	return remaining, nil
}

// errAlreadyRecorded aborts the spend transaction when the unlock row already
// exists; the caller treats it as an "already unlocked" outcome.
var errAlreadyRecorded = errors.New("unlock already recorded")
