// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"rishta/internal/cache"
	"rishta/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// RegistrationFilter narrows admin listing queries.
type RegistrationFilter struct {
	// PendingOnly restricts to accounts awaiting approval.
	PendingOnly bool
	// Since restricts to accounts created at or after the given time.
	Since time.Time
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter RegistrationFilter, limit, offset int) ([]models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new AccountRepository implementation.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	key := cache.AccountKey(id)

	err := cache.Aside(ctx, key, &account, cache.AccountTTL, func() error {
		if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Account", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Email already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAccount(ctx, account.ID)
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	var listingIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Listing{}).
			Where("account_id = ?", id).
			Pluck("id", &listingIDs).Error; err != nil {
			return err
		}
		// Other accounts' unlocks of this account's listing go too.
		if len(listingIDs) > 0 {
			if err := tx.Where("listing_id IN (?)", listingIDs).Delete(&models.ProfileUnlock{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("account_id = ?", id).Delete(&models.Listing{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&models.ProfileUnlock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAccount(ctx, id)
	for _, listingID := range listingIDs {
		cache.InvalidateListing(ctx, listingID)
	}
	cache.InvalidateMatchFeeds(ctx)
	return nil
}

func (r *accountRepository) List(ctx context.Context, filter RegistrationFilter, limit, offset int) ([]models.Account, error) {
	q := r.db.WithContext(ctx).Model(&models.Account{})
	if filter.PendingOnly {
		q = q.Where("is_approved = ?", false)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}

	var accounts []models.Account
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&accounts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return accounts, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
// PostgreSQL reports SQLSTATE 23505; sqlite (tests) reports a message match.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
