package models

import (
	"time"
)

// Role distinguishes regular registrants from admins.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Gender is a binary enum; the opposite-gender match filter depends on it.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ParseGender normalizes a submitted gender value.
func ParseGender(s string) (Gender, error) {
	switch s {
	case "Male", "male", "M", "m":
		return GenderMale, nil
	case "Female", "female", "F", "f":
		return GenderFemale, nil
	}
	return "", NewValidationError("Gender must be Male or Female")
}

// Opposite returns the other gender for match filtering.
func (g Gender) Opposite() Gender {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

// Account represents one registrant (or admin). Accounts are created pending
// at registration and only become visible as a Listing once an admin approves
// them and assigns a package tier.
type Account struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:120;not null" json:"name"`
	Email    string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone    string `gorm:"size:32;not null" json:"phone,omitempty"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(10);not null;default:'user'" json:"role"`

	// Bio details
	FatherName    string `gorm:"size:120" json:"father_name,omitempty"`
	Age           int    `json:"age"`
	Gender        Gender `gorm:"type:varchar(10);not null;default:'Male';index" json:"gender"`
	City          string `gorm:"size:80" json:"city"`
	Caste         string `gorm:"size:80" json:"caste"`
	Sect          string `gorm:"size:80" json:"sect"`
	Religion      string `gorm:"size:80;default:'Islam'" json:"religion"`
	Nationality   string `gorm:"size:80;default:'Pakistani'" json:"nationality"`
	MotherTongue  string `gorm:"size:80;default:'Urdu'" json:"mother_tongue"`
	Height        string `gorm:"size:40" json:"height"`
	Weight        string `gorm:"size:40" json:"weight"`
	MaritalStatus string `gorm:"size:40" json:"marital_status"`
	Disability    string `gorm:"size:120;default:'None / No'" json:"disability"`

	// Career and lifestyle
	Education     string `gorm:"size:120" json:"education"`
	Occupation    string `gorm:"size:120" json:"occupation"`
	MonthlyIncome string `gorm:"size:40" json:"monthly_income"`
	HouseType     string `gorm:"size:40;default:'Own'" json:"house_type"`
	HouseSize     string `gorm:"size:40" json:"house_size"`

	// Free-text sections
	About         string `gorm:"type:text" json:"about"`
	Requirements  string `gorm:"type:text" json:"requirements"`
	FamilyDetails string `gorm:"type:text" json:"family_details,omitempty"`

	// Subscription state, written only by the approval workflow and the
	// unlock path. Credits never go below zero.
	Tier          Tier       `gorm:"type:varchar(20);not null;default:'standard'" json:"tier"`
	Credits       int        `gorm:"not null;default:0" json:"credits"`
	PackageExpiry *time.Time `json:"package_expiry,omitempty"`
	ViewedCount   int        `gorm:"not null;default:0" json:"viewed_count"`

	// Uploaded assets, stored as URLs under the upload dir.
	Images            []string `gorm:"serializer:json" json:"images"`
	MainImage         string   `json:"main_image"`
	PaymentScreenshot string   `json:"payment_screenshot,omitempty"`

	IsApproved bool `gorm:"not null;default:false;index" json:"is_approved"`
	IsActive   bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account carries the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// PackageExpired reports whether the account's package validity has lapsed at
// the given instant. Accounts without an expiry never expire.
func (a *Account) PackageExpired(now time.Time) bool {
	return a.PackageExpiry != nil && now.After(*a.PackageExpiry)
}

// Viewer projects the account into the value the entitlement engine consumes.
func (a *Account) Viewer() Viewer {
	return Viewer{
		AccountID: a.ID,
		Role:      a.Role,
		Gender:    a.Gender,
		Tier:      a.Tier,
	}
}
