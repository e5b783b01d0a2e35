package service

import (
	"context"
	"testing"
	"time"

	"rishta/internal/database"
	"rishta/internal/models"
	"rishta/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApprovalTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, database.Migrate(db), "migrate sqlite")
	return db
}

func pendingAccount(t *testing.T, db *gorm.DB, email string) *models.Account {
	t.Helper()
	account := &models.Account{
		Name:     "Bilal Ahmed",
		Email:    email,
		Phone:    "+92 301 5550001",
		Password: "x",
		Gender:   models.GenderMale,
		City:     "Lahore",
		Caste:    "Arain",
		IsActive: true,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func TestApprove_GrantsTierAndPublishesListing(t *testing.T) {
	t.Parallel()
	db := setupApprovalTestDB(t)
	svc := NewApprovalService(db, repository.NewAccountRepository(db))
	account := pendingAccount(t, db, "bilal@example.com")

	now := time.Now()
	result, err := svc.Approve(context.Background(), account.ID, "basic", now)
	require.NoError(t, err)

	assert.Equal(t, models.TierBasic, result.Tier)
	assert.Equal(t, 3, result.Credits)
	assert.WithinDuration(t, now.Add(30*24*time.Hour), result.Expiry, time.Second)

	var stored models.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.True(t, stored.IsApproved)
	assert.Equal(t, 3, stored.Credits)

	var listing models.Listing
	require.NoError(t, db.Where("account_id = ?", account.ID).First(&listing).Error)
	assert.Equal(t, "Arain Rishta - Lahore", listing.Title)
	assert.Equal(t, stored.Phone, listing.Phone)
}

func TestApprove_TwiceFails(t *testing.T) {
	t.Parallel()
	db := setupApprovalTestDB(t)
	svc := NewApprovalService(db, repository.NewAccountRepository(db))
	account := pendingAccount(t, db, "repeat@example.com")

	_, err := svc.Approve(context.Background(), account.ID, "gold", time.Now())
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), account.ID, "diamond", time.Now())
	assertAppErrorCode(t, err, models.ErrCodeAlreadyApproved)

	// The first grant stays untouched and exactly one listing exists.
	var stored models.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, models.TierGold, stored.Tier)
	assert.Equal(t, 10, stored.Credits)

	var count int64
	require.NoError(t, db.Model(&models.Listing{}).Where("account_id = ?", account.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApprove_UnknownTier(t *testing.T) {
	t.Parallel()
	db := setupApprovalTestDB(t)
	svc := NewApprovalService(db, repository.NewAccountRepository(db))
	account := pendingAccount(t, db, "tier@example.com")

	_, err := svc.Approve(context.Background(), account.ID, "platinum", time.Now())
	assertAppErrorCode(t, err, models.ErrCodeInvalidTier)

	var stored models.Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.False(t, stored.IsApproved, "a bad tier must not flip the account")
}

func TestApprove_UnknownAccount(t *testing.T) {
	t.Parallel()
	db := setupApprovalTestDB(t)
	svc := NewApprovalService(db, repository.NewAccountRepository(db))

	_, err := svc.Approve(context.Background(), 9999, "basic", time.Now())
	assertAppErrorCode(t, err, models.ErrCodeNotFound)
}

func TestApprove_DiamondHasNoCreditBalance(t *testing.T) {
	t.Parallel()
	db := setupApprovalTestDB(t)
	svc := NewApprovalService(db, repository.NewAccountRepository(db))
	account := pendingAccount(t, db, "diamond@example.com")

	result, err := svc.Approve(context.Background(), account.ID, "diamond", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Credits, "unlimited access is a tier flag, not a balance")
}

func TestDeleteRegistration_Cascades(t *testing.T) {
	t.Parallel()
	db := setupApprovalTestDB(t)
	svc := NewApprovalService(db, repository.NewAccountRepository(db))
	account := pendingAccount(t, db, "gone@example.com")

	_, err := svc.Approve(context.Background(), account.ID, "basic", time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.ProfileUnlock{AccountID: account.ID, ListingID: 1}).Error)

	require.NoError(t, svc.DeleteRegistration(context.Background(), account.ID))

	var accounts, listings, unlocks int64
	db.Model(&models.Account{}).Where("id = ?", account.ID).Count(&accounts)
	db.Model(&models.Listing{}).Where("account_id = ?", account.ID).Count(&listings)
	db.Model(&models.ProfileUnlock{}).Where("account_id = ?", account.ID).Count(&unlocks)
	assert.Zero(t, accounts)
	assert.Zero(t, listings)
	assert.Zero(t, unlocks)
}

func TestDeleteRegistration_UnknownAccount(t *testing.T) {
	t.Parallel()
	db := setupApprovalTestDB(t)
	svc := NewApprovalService(db, repository.NewAccountRepository(db))

	err := svc.DeleteRegistration(context.Background(), 404)
	assertAppErrorCode(t, err, models.ErrCodeNotFound)
}
