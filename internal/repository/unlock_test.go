package repository

import (
	"context"
	"errors"
	"testing"

	"rishta/internal/database"
	"rishta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, database.Migrate(db), "migrate sqlite")
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, email string, credits int) *models.Account {
	t.Helper()
	account := &models.Account{
		Name:     "Test Account",
		Email:    email,
		Phone:    "+92 300 0000001",
		Password: "x",
		Gender:   models.GenderMale,
		Credits:  credits,
		IsActive: true,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func seedListing(t *testing.T, db *gorm.DB, accountID uint, gender models.Gender) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		AccountID: accountID,
		Name:      "Listing",
		Gender:    gender,
		Phone:     "+92 300 0000002",
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func TestUnlockSpend_DecrementsOnce(t *testing.T) {
	t.Parallel()
	db := setupRepoTestDB(t)
	repo := NewUnlockRepository(db)

	account := seedAccount(t, db, "spend@example.com", 3)
	owner := seedAccount(t, db, "owner@example.com", 0)
	listing := seedListing(t, db, owner.ID, models.GenderFemale)

	remaining, err := repo.Spend(context.Background(), account.ID, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	has, err := repo.Has(context.Background(), account.ID, listing.ID)
	require.NoError(t, err)
	assert.True(t, has)

	var stored models.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, 1, stored.ViewedCount, "a paid unlock counts as one view")
}

// Spending the same pair twice must not double-charge: the second attempt
// hits the composite unique index and reports the race sentinel.
func TestUnlockSpend_DuplicatePairDoesNotDoubleCharge(t *testing.T) {
	t.Parallel()
	db := setupRepoTestDB(t)
	repo := NewUnlockRepository(db)

	account := seedAccount(t, db, "dup@example.com", 3)
	owner := seedAccount(t, db, "dupowner@example.com", 0)
	listing := seedListing(t, db, owner.ID, models.GenderFemale)

	_, err := repo.Spend(context.Background(), account.ID, listing.ID)
	require.NoError(t, err)

	remaining, err := repo.Spend(context.Background(), account.ID, listing.ID)
	require.True(t, errors.Is(err, models.ErrUnlockRaced))
	assert.Equal(t, 2, remaining, "the duplicate attempt reports the unchanged balance")

	var stored models.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, 2, stored.Credits)
	assert.Equal(t, 1, stored.ViewedCount, "the duplicate attempt is not a second view")
}

// The conditional decrement is the storage-level floor: with zero credits the
// UPDATE matches nothing, the transaction rolls back and no unlock row stays.
func TestUnlockSpend_ZeroBalanceRollsBack(t *testing.T) {
	t.Parallel()
	db := setupRepoTestDB(t)
	repo := NewUnlockRepository(db)

	account := seedAccount(t, db, "broke@example.com", 0)
	owner := seedAccount(t, db, "brokeowner@example.com", 0)
	listing := seedListing(t, db, owner.ID, models.GenderFemale)

	_, err := repo.Spend(context.Background(), account.ID, listing.ID)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.ErrCodeInsufficientCredits, appErr.Code)

	has, err := repo.Has(context.Background(), account.ID, listing.ID)
	require.NoError(t, err)
	assert.False(t, has, "failed spend must leave no unlock row")

	var stored models.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, 0, stored.Credits, "credits never go negative")
	assert.Zero(t, stored.ViewedCount, "a failed spend is not a view")
}

func TestUnlockRecord_Idempotent(t *testing.T) {
	t.Parallel()
	db := setupRepoTestDB(t)
	repo := NewUnlockRepository(db)

	account := seedAccount(t, db, "record@example.com", 0)
	owner := seedAccount(t, db, "recordowner@example.com", 0)
	listing := seedListing(t, db, owner.ID, models.GenderFemale)

	require.NoError(t, repo.Record(context.Background(), account.ID, listing.ID))
	require.NoError(t, repo.Record(context.Background(), account.ID, listing.ID))

	var count int64
	db.Model(&models.ProfileUnlock{}).
		Where("account_id = ? AND listing_id = ?", account.ID, listing.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)

	var stored models.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, 1, stored.ViewedCount, "re-recording counts one view, not two")
}

func TestUnlockListingIDs(t *testing.T) {
	t.Parallel()
	db := setupRepoTestDB(t)
	repo := NewUnlockRepository(db)

	account := seedAccount(t, db, "ids@example.com", 0)
	ownerA := seedAccount(t, db, "idsa@example.com", 0)
	ownerB := seedAccount(t, db, "idsb@example.com", 0)
	la := seedListing(t, db, ownerA.ID, models.GenderFemale)
	lb := seedListing(t, db, ownerB.ID, models.GenderFemale)

	require.NoError(t, repo.Record(context.Background(), account.ID, la.ID))
	require.NoError(t, repo.Record(context.Background(), account.ID, lb.ID))

	ids, err := repo.ListingIDs(context.Background(), account.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{la.ID, lb.ID}, ids)
}
