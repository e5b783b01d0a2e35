package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rishta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveRegistrationFlow(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)

	admin := createTestAccount(t, db, accountSpec{email: "admin@example.com", role: models.RoleAdmin, gender: models.GenderMale, approved: true})
	pending := createTestAccount(t, db, accountSpec{email: "applicant@example.com", gender: models.GenderFemale})
	auth := bearerToken(t, s, admin.ID)

	approve := func(id, tier string) *http.Response {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/approve/"+id,
			strings.NewReader(`{"package":"`+tier+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", auth)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := approve(itoa(pending.ID), "gold")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	approved := got["approved"].(map[string]any)
	assert.Equal(t, "gold", approved["tier"])
	assert.EqualValues(t, 10, approved["credits"])

	var listing models.Listing
	require.NoError(t, db.Where("account_id = ?", pending.ID).First(&listing).Error)
	assert.Equal(t, pending.Phone, listing.Phone)

	t.Run("second approval conflicts", func(t *testing.T) {
		resp := approve(itoa(pending.ID), "diamond")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown account", func(t *testing.T) {
		resp := approve("98765", "basic")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid tier", func(t *testing.T) {
		other := createTestAccount(t, db, accountSpec{email: "other@example.com", gender: models.GenderMale})
		resp := approve(itoa(other.ID), "platinum")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAdminRoutes_RejectNonAdmin(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)

	user := createTestAccount(t, db, accountSpec{email: "plain@example.com", gender: models.GenderMale, approved: true})
	auth := bearerToken(t, s, user.ID)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/registrations"},
		{http.MethodPut, "/api/admin/approve/1"},
		{http.MethodDelete, "/api/admin/registration/1"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", auth)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}

func TestGetRegistrations_PendingFilter(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)

	admin := createTestAccount(t, db, accountSpec{email: "admin2@example.com", role: models.RoleAdmin, gender: models.GenderMale, approved: true})
	createTestAccount(t, db, accountSpec{email: "p1@example.com", gender: models.GenderFemale})
	createTestAccount(t, db, accountSpec{email: "a1@example.com", gender: models.GenderMale, approved: true})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/registrations?pending=true", nil)
	req.Header.Set("Authorization", bearerToken(t, s, admin.ID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody(t, resp)
	registrations := got["registrations"].([]any)
	require.Len(t, registrations, 1)
	assert.Equal(t, "p1@example.com", registrations[0].(map[string]any)["email"])
}

func TestGetRegistrations_RangeFilter(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)

	admin := createTestAccount(t, db, accountSpec{email: "admin4@example.com", role: models.RoleAdmin, gender: models.GenderMale, approved: true})
	createTestAccount(t, db, accountSpec{email: "fresh@example.com", gender: models.GenderFemale})
	stale := createTestAccount(t, db, accountSpec{email: "stale@example.com", gender: models.GenderFemale})
	require.NoError(t, db.Model(&models.Account{}).Where("id = ?", stale.ID).
		Update("created_at", time.Now().AddDate(0, 0, -10)).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/registrations?pending=true&range=week", nil)
	req.Header.Set("Authorization", bearerToken(t, s, admin.ID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody(t, resp)
	registrations := got["registrations"].([]any)
	require.Len(t, registrations, 1)
	assert.Equal(t, "fresh@example.com", registrations[0].(map[string]any)["email"])
}

func TestRegistrationRangeStart(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-24*time.Hour), registrationRangeStart("day", now))
	assert.Equal(t, now.AddDate(0, 0, -7), registrationRangeStart("week", now))
	assert.Equal(t, now.AddDate(0, -1, 0), registrationRangeStart("month", now))
	assert.True(t, registrationRangeStart("", now).IsZero())
	assert.True(t, registrationRangeStart("year", now).IsZero())
}

func TestDeleteRegistrationEndpoint(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)

	admin := createTestAccount(t, db, accountSpec{email: "admin3@example.com", role: models.RoleAdmin, gender: models.GenderMale, approved: true})
	victim := createTestAccount(t, db, accountSpec{email: "remove@example.com", gender: models.GenderFemale, approved: true})
	publishListing(t, db, victim)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/registration/"+itoa(victim.ID), nil)
	req.Header.Set("Authorization", bearerToken(t, s, admin.ID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var accounts, listings int64
	db.Model(&models.Account{}).Where("id = ?", victim.ID).Count(&accounts)
	db.Model(&models.Listing{}).Where("account_id = ?", victim.ID).Count(&listings)
	assert.Zero(t, accounts)
	assert.Zero(t, listings)
}
