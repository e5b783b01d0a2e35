package repository

import (
	"context"
	"errors"

	"rishta/internal/cache"
	"rishta/internal/models"

	"gorm.io/gorm"
)

// MatchFilter narrows the public listing feed.
type MatchFilter struct {
	// Gender restricts to listings of the given gender when non-empty.
	Gender models.Gender
	// ExcludeAccountID removes the viewer's own listing from the feed.
	ExcludeAccountID uint
}

// ListingRepository defines persistence operations for published listings.
type ListingRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	GetByAccountID(ctx context.Context, accountID uint) (*models.Listing, error)
	List(ctx context.Context, filter MatchFilter, limit, offset int) ([]models.Listing, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository returns a new ListingRepository implementation.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	key := cache.ListingKey(id)

	err := cache.Aside(ctx, key, &listing, cache.ListingTTL, func() error {
		if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Listing", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) GetByAccountID(ctx context.Context, accountID uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &listing, nil
}

// List serves the match feed from a per-gender-segment cache. The cached
// entry is the raw segment; self-exclusion and pagination are per viewer
// and applied after the fetch.
func (r *listingRepository) List(ctx context.Context, filter MatchFilter, limit, offset int) ([]models.Listing, error) {
	segment := "all"
	if filter.Gender != "" {
		segment = string(filter.Gender)
	}

	var feed []models.Listing
	err := cache.Aside(ctx, cache.MatchFeedKey(segment), &feed, cache.MatchFeedTTL, func() error {
		q := r.db.WithContext(ctx).Model(&models.Listing{})
		if filter.Gender != "" {
			q = q.Where("gender = ?", filter.Gender)
		}
		if err := q.Order("created_at DESC").Find(&feed).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	listings := feed[:0:0]
	for _, l := range feed {
		if filter.ExcludeAccountID != 0 && l.AccountID == filter.ExcludeAccountID {
			continue
		}
		listings = append(listings, l)
	}

	if offset >= len(listings) {
		return []models.Listing{}, nil
	}
	listings = listings[offset:]
	if limit > 0 && limit < len(listings) {
		listings = listings[:limit]
	}
	return listings, nil
}
