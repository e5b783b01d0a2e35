package server

import (
	"time"

	"rishta/internal/models"
	"rishta/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetRegistrations handles GET /api/admin/registrations
// @Summary List registrations for review
// @Tags admin
// @Produce json
// @Param pending query bool false "Only accounts awaiting approval"
// @Param range query string false "Registered within: day, week or month"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} object{registrations=[]models.Account}
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/registrations [get]
// registrationRangeStart maps the range query value to a cutoff time.
// Unknown values mean no cutoff.
func registrationRangeStart(r string, now time.Time) time.Time {
	switch r {
	case "day":
		return now.Add(-24 * time.Hour)
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	}
	return time.Time{}
}

func (s *Server) GetRegistrations(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	filter := repository.RegistrationFilter{
		PendingOnly: c.QueryBool("pending", false),
		Since:       registrationRangeStart(c.Query("range"), time.Now()),
	}

	registrations, err := s.approvals.ListRegistrations(c.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"registrations": registrations,
		"count":         len(registrations),
	})
}

// ApproveRegistration handles PUT /api/admin/approve/:id
// @Summary Approve a pending registration
// @Description Assigns the chosen package tier, grants its credits and expiry, and publishes the account's listing. Approving twice fails with 409.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param request body object{package=string} true "Package tier: standard, basic, gold or diamond"
// @Success 200 {object} service.ApprovedResult
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/approve/{id} [put]
func (s *Server) ApproveRegistration(c *fiber.Ctx) error {
	accountID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Package string `json:"package"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.approvals.Approve(c.Context(), accountID, req.Package, time.Now())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"approved": result,
	})
}

// DeleteRegistration handles DELETE /api/admin/registration/:id
// @Summary Delete a registration
// @Description Removes the account along with its listing and unlock records.
// @Tags admin
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} object{success=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/registration/{id} [delete]
func (s *Server) DeleteRegistration(c *fiber.Ctx) error {
	accountID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.approvals.DeleteRegistration(c.Context(), accountID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"success": true})
}
