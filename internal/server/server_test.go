package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"rishta/internal/config"
	"rishta/internal/database"
	"rishta/internal/models"
	"rishta/internal/repository"
	"rishta/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "pass1234word"

// newTestServer wires a Server against in-memory sqlite without Redis and
// without the global middleware stack. Route-level auth still applies.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, database.Migrate(db), "migrate sqlite")

	cfg := &config.Config{
		JWTSecret:         "unit-test-secret-unit-test-secret!!",
		Env:               "test",
		UploadDir:         t.TempDir(),
		MaxUploadSizeMB:   5,
		PublicBaseURL:     "http://localhost:8460",
		AnonymousBrowsing: true,
	}

	accountRepo := repository.NewAccountRepository(db)
	listingRepo := repository.NewListingRepository(db)
	unlockRepo := repository.NewUnlockRepository(db)

	s := &Server{
		config:      cfg,
		db:          db,
		accountRepo: accountRepo,
		listingRepo: listingRepo,
		unlockRepo:  unlockRepo,
	}
	s.photos = service.NewPhotoService(cfg)
	s.registrations = service.NewRegistrationService(accountRepo, s.photos)
	s.approvals = service.NewApprovalService(db, accountRepo)
	s.entitlements = service.NewEntitlementService(accountRepo, listingRepo, unlockRepo)
	s.matches = service.NewMatchService(accountRepo, listingRepo, unlockRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db
}

type accountSpec struct {
	email    string
	role     models.Role
	gender   models.Gender
	tier     models.Tier
	credits  int
	approved bool
	expired  bool
}

func createTestAccount(t *testing.T, db *gorm.DB, spec accountSpec) *models.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	expiry := time.Now().Add(30 * 24 * time.Hour)
	if spec.expired {
		expiry = time.Now().Add(-time.Hour)
	}

	role := spec.role
	if role == "" {
		role = models.RoleUser
	}
	tier := spec.tier
	if tier == "" {
		tier = models.TierStandard
	}

	account := &models.Account{
		Name:          "Test Person",
		Email:         spec.email,
		Phone:         "+92 300 7770001",
		Password:      string(hash),
		Role:          role,
		Gender:        spec.gender,
		City:          "Lahore",
		Caste:         "Malik",
		Tier:          tier,
		Credits:       spec.credits,
		PackageExpiry: &expiry,
		IsApproved:    spec.approved,
		IsActive:      true,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func publishListing(t *testing.T, db *gorm.DB, account *models.Account) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		AccountID:     account.ID,
		Name:          account.Name,
		Phone:         account.Phone,
		Gender:        account.Gender,
		City:          account.City,
		FamilyDetails: "Family of five",
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func bearerToken(t *testing.T, s *Server, accountID uint) string {
	t.Helper()
	token, err := s.generateToken(accountID)
	require.NoError(t, err)
	return "Bearer " + token
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return body
}
