// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"errors"
	"time"

	"rishta/internal/models"
	"rishta/internal/observability"
	"rishta/internal/repository"
)

// EntitlementService is the credit/unlock engine: it computes package grants,
// governs the unlock operation and decides listing visibility.
type EntitlementService struct {
	accounts repository.AccountRepository
	listings repository.ListingRepository
	unlocks  repository.UnlockRepository
}

// NewEntitlementService creates an EntitlementService.
func NewEntitlementService(
	accounts repository.AccountRepository,
	listings repository.ListingRepository,
	unlocks repository.UnlockRepository,
) *EntitlementService {
	return &EntitlementService{accounts: accounts, listings: listings, unlocks: unlocks}
}

// Grant computes the credit allotment and expiry a tier confers when assigned
// at the given instant. It is the only place the tier table is applied.
func Grant(tier models.Tier, now time.Time) (credits int, expiry time.Time) {
	e := tier.Entitlements()
	return e.Credits, now.Add(e.Duration)
}

// AssignPackage applies a tier grant to an account and marks it approved.
// The caller persists the account (the approval workflow does so inside its
// transaction).
func AssignPackage(account *models.Account, tier models.Tier, now time.Time) {
	credits, expiry := Grant(tier, now)
	account.Tier = tier
	account.Credits = credits
	account.PackageExpiry = &expiry
	account.IsApproved = true
	// A fresh package starts with a clean view counter.
	account.ViewedCount = 0
}

// Unlock spends one credit to reveal a listing's contact fields, recording the
// unlock permanently. The branch order is fixed: already-unlocked wins over
// expiry, expiry over the unlimited bypass, the bypass over the credit check.
func (s *EntitlementService) Unlock(ctx context.Context, accountID, listingID uint, now time.Time) (*models.UnlockResult, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		observability.UnlockAttempts.WithLabelValues("not_found").Inc()
		return nil, err
	}

	unlocked, err := s.unlocks.Has(ctx, accountID, listingID)
	if err != nil {
		return nil, err
	}
	if unlocked {
		observability.UnlockAttempts.WithLabelValues("already_unlocked").Inc()
		return &models.UnlockResult{AlreadyUnlocked: true, Credits: account.Credits}, nil
	}

	if account.PackageExpired(now) {
		observability.UnlockAttempts.WithLabelValues("expired").Inc()
		return nil, models.NewPackageExpiredError()
	}

	if account.Tier.Unlimited() || account.IsAdmin() {
		if err := s.unlocks.Record(ctx, accountID, listingID); err != nil {
			return nil, err
		}
		observability.UnlockAttempts.WithLabelValues("unlocked").Inc()
		return &models.UnlockResult{Credits: account.Credits}, nil
	}

	if account.Credits <= 0 {
		observability.UnlockAttempts.WithLabelValues("no_credits").Inc()
		return nil, models.NewInsufficientCreditsError()
	}

	remaining, err := s.unlocks.Spend(ctx, accountID, listingID)
	if errors.Is(err, models.ErrUnlockRaced) {
		observability.UnlockAttempts.WithLabelValues("already_unlocked").Inc()
		return &models.UnlockResult{AlreadyUnlocked: true, Credits: remaining}, nil
	}
	if err != nil {
		observability.UnlockAttempts.WithLabelValues("no_credits").Inc()
		return nil, err
	}

	observability.UnlockAttempts.WithLabelValues("unlocked").Inc()
	return &models.UnlockResult{Credits: remaining}, nil
}

// Redact stamps the lock state on a listing and strips contact and family
// fields when locked. unlocked tells whether the viewer has already spent a
// credit on this listing.
func Redact(listing models.Listing, viewer models.Viewer, unlocked bool) models.RedactedListing {
	open := viewer.IsAdmin() ||
		viewer.Unlimited() ||
		(!viewer.Anonymous() && viewer.AccountID == listing.AccountID) ||
		unlocked

	out := models.RedactedListing{Listing: listing, IsLocked: !open}
	if out.IsLocked {
		out.Phone = ""
		out.FatherName = ""
		out.FamilyDetails = ""
	}
	return out
}

// MatchQuery builds the listing filter for a viewer: approved listings only
// (the listings table holds nothing else), never the viewer's own entry, and
// the opposite-gender restriction for authenticated non-admin viewers. Admin
// and anonymous viewers browse unrestricted.
func MatchQuery(viewer models.Viewer) repository.MatchFilter {
	filter := repository.MatchFilter{ExcludeAccountID: viewer.AccountID}
	if !viewer.Anonymous() && !viewer.IsAdmin() {
		filter.Gender = viewer.Gender.Opposite()
	}
	return filter
}
