package service

import (
	"context"
	"fmt"
	"strconv"

	"rishta/internal/middleware"
	"rishta/internal/models"
	"rishta/internal/observability"
	"rishta/internal/repository"
	"rishta/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// RegistrationInput carries one registration submission, form fields plus
// the multipart uploads already read into memory.
type RegistrationInput struct {
	Name     string
	Email    string
	Phone    string
	Password string

	FatherName    string
	Age           string
	Gender        string
	City          string
	Caste         string
	Sect          string
	Religion      string
	Nationality   string
	MotherTongue  string
	Height        string
	Weight        string
	MaritalStatus string
	Disability    string

	Education     string
	Occupation    string
	MonthlyIncome string
	HouseType     string
	HouseSize     string

	About         string
	Requirements  string
	FamilyDetails string

	Photos            []PhotoUpload
	PaymentScreenshot *PhotoUpload
}

// RegistrationService creates pending accounts. New registrants carry no
// credits and no package until an admin approves them.
type RegistrationService struct {
	accounts repository.AccountRepository
	photos   *PhotoService
}

// NewRegistrationService wires a RegistrationService.
func NewRegistrationService(accounts repository.AccountRepository, photos *PhotoService) *RegistrationService {
	return &RegistrationService{accounts: accounts, photos: photos}
}

// Register validates the submission, stores the uploads and creates the
// account in pending state.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (*models.Account, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	gender, err := models.ParseGender(in.Gender)
	if err != nil {
		return nil, err
	}

	age := 0
	if in.Age != "" {
		age, err = strconv.Atoi(in.Age)
		if err != nil {
			return nil, models.NewValidationError("Age must be a number")
		}
		if err := validation.ValidateAge(age); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	if existing, err := s.accounts.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}

	if len(in.Photos) > maxProfileShots {
		return nil, models.NewValidationError(fmt.Sprintf("At most %d photos allowed", maxProfileShots))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	images, err := s.photos.StoreAll(in.Photos)
	if err != nil {
		return nil, err
	}

	screenshot := ""
	if in.PaymentScreenshot != nil {
		screenshot, err = s.photos.Store(*in.PaymentScreenshot)
		if err != nil {
			return nil, err
		}
	}

	account := &models.Account{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: string(hash),
		Role:     models.RoleUser,

		FatherName:    in.FatherName,
		Age:           age,
		Gender:        gender,
		City:          in.City,
		Caste:         in.Caste,
		Sect:          in.Sect,
		Religion:      in.Religion,
		Nationality:   in.Nationality,
		MotherTongue:  in.MotherTongue,
		Height:        in.Height,
		Weight:        in.Weight,
		MaritalStatus: in.MaritalStatus,
		Disability:    in.Disability,

		Education:     in.Education,
		Occupation:    in.Occupation,
		MonthlyIncome: in.MonthlyIncome,
		HouseType:     in.HouseType,
		HouseSize:     in.HouseSize,

		About:         in.About,
		Requirements:  in.Requirements,
		FamilyDetails: in.FamilyDetails,

		Tier:              models.TierStandard,
		Credits:           0,
		Images:            images,
		PaymentScreenshot: screenshot,
		IsApproved:        false,
		IsActive:          true,
	}
	if len(images) > 0 {
		account.MainImage = images[0]
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	observability.Registrations.Inc()
	middleware.Logger.InfoContext(ctx, "registration accepted",
		"account_id", account.ID,
		"gender", account.Gender,
		"photos", len(images),
	)

	return account, nil
}
