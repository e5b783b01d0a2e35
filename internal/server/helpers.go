package server

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"rishta/internal/models"
	"rishta/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

func (s *Server) isAdminByAccountID(ctx context.Context, accountID uint) (bool, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Select("role").First(&account, accountID).Error; err != nil {
		return false, err
	}
	return account.IsAdmin(), nil
}

// viewerFor resolves the browsing identity for a request. An absent or
// invalid Authorization header yields the anonymous viewer.
func (s *Server) viewerFor(c *fiber.Ctx) (models.Viewer, error) {
	accountID, ok := s.optionalAccountID(c)
	if !ok {
		return models.Viewer{}, nil
	}

	account, err := s.accountRepo.GetByID(c.Context(), accountID)
	if err != nil {
		return models.Viewer{}, err
	}
	return account.Viewer(), nil
}

// readUpload copies one multipart file into memory, capped at the configured
// upload limit so an oversized body cannot balloon the process.
func (s *Server) readUpload(fh *multipart.FileHeader) (service.PhotoUpload, error) {
	maxBytes := int64(s.config.MaxUploadSizeMB) * 1024 * 1024
	if fh.Size > maxBytes {
		return service.PhotoUpload{}, models.NewValidationError("Uploaded file is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return service.PhotoUpload{}, models.NewInternalError(err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return service.PhotoUpload{}, models.NewInternalError(err)
	}
	if int64(len(content)) > maxBytes {
		return service.PhotoUpload{}, models.NewValidationError("Uploaded file is too large")
	}

	return service.PhotoUpload{Filename: fh.Filename, Content: content}, nil
}
