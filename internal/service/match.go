package service

import (
	"context"

	"rishta/internal/models"
	"rishta/internal/repository"
)

// MatchService serves the gender-filtered, privacy-redacted listing feed.
type MatchService struct {
	accounts repository.AccountRepository
	listings repository.ListingRepository
	unlocks  repository.UnlockRepository
}

// MatchPage is the feed payload: redacted profiles plus the viewer's
// remaining credit balance (zero for anonymous viewers).
type MatchPage struct {
	Profiles []models.RedactedListing `json:"profiles"`
	Credits  int                      `json:"credits"`
}

// NewMatchService creates a MatchService.
func NewMatchService(
	accounts repository.AccountRepository,
	listings repository.ListingRepository,
	unlocks repository.UnlockRepository,
) *MatchService {
	return &MatchService{accounts: accounts, listings: listings, unlocks: unlocks}
}

// Matches returns the feed for a viewer. Pending (not yet approved) non-admin
// viewers get an empty page rather than an error, mirroring the dashboard's
// "awaiting approval" state. Anonymous viewers get the full feed, locked.
func (s *MatchService) Matches(ctx context.Context, viewer models.Viewer, limit, offset int) (*MatchPage, error) {
	credits := 0
	if !viewer.Anonymous() {
		account, err := s.accounts.GetByID(ctx, viewer.AccountID)
		if err != nil {
			return nil, err
		}
		if !account.IsAdmin() && !account.IsApproved {
			return &MatchPage{Profiles: []models.RedactedListing{}}, nil
		}
		credits = account.Credits
		// Refresh viewer from storage so tier/role changes since token
		// issuance are honored.
		viewer = account.Viewer()
	}

	listings, err := s.listings.List(ctx, MatchQuery(viewer), limit, offset)
	if err != nil {
		return nil, err
	}

	unlockedSet, err := s.unlockedSet(ctx, viewer)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.RedactedListing, 0, len(listings))
	for _, listing := range listings {
		profiles = append(profiles, Redact(listing, viewer, unlockedSet[listing.ID]))
	}

	return &MatchPage{Profiles: profiles, Credits: credits}, nil
}

// GetListing returns a single redacted listing for a viewer.
func (s *MatchService) GetListing(ctx context.Context, viewer models.Viewer, listingID uint) (*models.RedactedListing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	unlocked := false
	if !viewer.Anonymous() {
		account, err := s.accounts.GetByID(ctx, viewer.AccountID)
		if err != nil {
			return nil, err
		}
		viewer = account.Viewer()

		unlocked, err = s.unlocks.Has(ctx, viewer.AccountID, listingID)
		if err != nil {
			return nil, err
		}
	}

	redacted := Redact(*listing, viewer, unlocked)
	return &redacted, nil
}

func (s *MatchService) unlockedSet(ctx context.Context, viewer models.Viewer) (map[uint]bool, error) {
	if viewer.Anonymous() {
		return nil, nil
	}
	ids, err := s.unlocks.ListingIDs(ctx, viewer.AccountID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
