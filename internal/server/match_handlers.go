package server

import (
	"time"

	"rishta/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMatches handles GET /api/matches
// @Summary Browse match profiles
// @Description Returns approved profiles of the opposite gender, with contact fields redacted unless the viewer has unlocked them. Anonymous viewers see the feed fully locked.
// @Tags matches
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} service.MatchPage
// @Failure 401 {object} models.ErrorResponse
// @Router /matches [get]
func (s *Server) GetMatches(c *fiber.Ctx) error {
	viewer, err := s.viewerFor(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if viewer.Anonymous() && !s.config.AnonymousBrowsing {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	p := parsePagination(c, 20)
	page, err := s.matches.Matches(c.Context(), viewer, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(page)
}

// GetListing handles GET /api/listings/:id
// @Summary Get one profile listing
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} models.RedactedListing
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id} [get]
func (s *Server) GetListing(c *fiber.Ctx) error {
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewer, err := s.viewerFor(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if viewer.Anonymous() && !s.config.AnonymousBrowsing {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	listing, err := s.matches.GetListing(c.Context(), viewer, listingID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(listing)
}

// UnlockProfile handles POST /api/unlock-profile
// @Summary Unlock a profile's contact details
// @Description Spends one credit to permanently unlock a listing for the caller. Unlocking an already-unlocked listing is a no-op success and costs nothing.
// @Tags matches
// @Accept json
// @Produce json
// @Param request body object{profileId=int} true "Listing to unlock"
// @Success 200 {object} object{success=bool,alreadyUnlocked=bool,credits=int}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /unlock-profile [post]
func (s *Server) UnlockProfile(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(uint)

	var req struct {
		ProfileID uint `json:"profileId"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProfileID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("profileId is required"))
	}

	result, err := s.entitlements.Unlock(c.Context(), accountID, req.ProfileID, time.Now())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"alreadyUnlocked": result.AlreadyUnlocked,
		"credits":         result.Credits,
	})
}

// GetMyProfile handles GET /api/users/me
// @Summary Get the caller's own account
// @Description Returns the caller's account with its remaining credits and the ids of listings they have unlocked.
// @Tags users
// @Produce json
// @Success 200 {object} models.Account
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	accountID := c.Locals("accountID").(uint)

	account, err := s.accountRepo.GetByID(c.Context(), accountID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	unlocked, err := s.unlockRepo.ListingIDs(c.Context(), accountID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if unlocked == nil {
		unlocked = []uint{}
	}

	return c.JSON(struct {
		*models.Account
		UnlockedProfiles []uint `json:"unlockedProfiles"`
	}{account, unlocked})
}
