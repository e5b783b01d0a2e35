package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rishta/internal/models"
	"rishta/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Register handles POST /api/register
// @Summary Register a new matrimonial profile
// @Description Submit a registration with bio details, profile photos and a payment screenshot. The account stays pending until an admin approves it.
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Full name"
// @Param email formData string true "Email address"
// @Param phone formData string true "Phone number"
// @Param password formData string true "Password"
// @Param gender formData string true "Male or Female"
// @Param photos formData file false "Up to 4 profile photos"
// @Param paymentScreenshot formData file false "Payment proof"
// @Success 201 {object} object{success=bool,account=models.Account}
// @Failure 400 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	in := service.RegistrationInput{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Phone:    strings.TrimSpace(c.FormValue("phone")),
		Password: c.FormValue("password"),

		FatherName:    c.FormValue("fatherName"),
		Age:           c.FormValue("age"),
		Gender:        c.FormValue("gender"),
		City:          c.FormValue("city"),
		Caste:         c.FormValue("caste"),
		Sect:          c.FormValue("sect"),
		Religion:      c.FormValue("religion"),
		Nationality:   c.FormValue("nationality"),
		MotherTongue:  c.FormValue("motherTongue"),
		Height:        c.FormValue("height"),
		Weight:        c.FormValue("weight"),
		MaritalStatus: c.FormValue("maritalStatus"),
		Disability:    c.FormValue("disability"),

		Education:     c.FormValue("education"),
		Occupation:    c.FormValue("occupation"),
		MonthlyIncome: c.FormValue("monthlyIncome"),
		HouseType:     c.FormValue("houseType"),
		HouseSize:     c.FormValue("houseSize"),

		About:         c.FormValue("about"),
		Requirements:  c.FormValue("requirements"),
		FamilyDetails: c.FormValue("familyDetails"),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["photos"] {
			upload, err := s.readUpload(fh)
			if err != nil {
				return models.RespondWithError(c, models.StatusForError(err), err)
			}
			in.Photos = append(in.Photos, upload)
		}
		if files := form.File["paymentScreenshot"]; len(files) > 0 {
			upload, err := s.readUpload(files[0])
			if err != nil {
				return models.RespondWithError(c, models.StatusForError(err), err)
			}
			in.PaymentScreenshot = &upload
		}
	}

	account, err := s.registrations.Register(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration received, awaiting admin approval",
		"account": account,
	})
}

// Login handles POST /api/login
// @Summary Account login
// @Description Authenticate an account and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,account=models.Account}
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	account, err := s.accountRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if account == nil || !account.IsActive {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(account.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"account": account,
	})
}

// Refresh handles POST /api/refresh. It exchanges a still-valid token for a
// fresh one with a new expiry and jti.
// @Summary Refresh token
// @Tags auth
// @Produce json
// @Success 200 {object} object{token=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /refresh [post]
func (s *Server) Refresh(c *fiber.Ctx) error {
	accountID, ok := s.optionalAccountID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired token"))
	}

	token, err := s.generateToken(accountID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": token})
}

// Logout handles POST /api/logout. The token's jti is blacklisted in Redis
// until its natural expiry so it cannot be replayed. Without Redis, logout
// is client-side only.
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} object{success=bool}
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired token"))
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && s.redis != nil {
		jti, _ := claims["jti"].(string)
		exp, _ := claims["exp"].(float64)
		if jti != "" && exp > 0 {
			ttl := time.Until(time.Unix(int64(exp), 0))
			if ttl > 0 {
				s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl)
			}
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

// generateToken creates a JWT token for the given account ID
func (s *Server) generateToken(accountID uint) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(accountID), 10), // Subject (account ID as string)
		"iss": "rishta-api",                              // Issuer
		"aud": "rishta-client",                           // Audience
		"exp": now.Add(time.Hour * 24 * 7).Unix(),        // Expiration (7 days)
		"iat": now.Unix(),                                // Issued at
		"nbf": now.Unix(),                                // Not before
		"jti": s.generateJTI(),                           // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
