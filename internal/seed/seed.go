// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"rishta/internal/models"
	"rishta/internal/repository"
	"rishta/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumAccounts  int
	ApproveRatio float64 // share of accounts approved with a random tier
	ShouldClean  bool
}

var (
	cities = []string{
		"Karachi", "Lahore", "Islamabad", "Rawalpindi", "Faisalabad",
		"Multan", "Peshawar", "Quetta", "Sialkot", "Hyderabad", "Gujranwala",
	}

	castes = []string{
		"Rajput", "Jutt", "Arain", "Sheikh", "Mughal", "Syed", "Gujjar",
		"Malik", "Butt", "Awan", "Khan",
	}

	sects = []string{"Sunni", "Shia", "Deobandi", "Barelvi", "Ahl-e-Hadith"}

	educations = []string{
		"Matric", "Intermediate", "Bachelors", "Masters", "MPhil", "PhD",
		"MBBS", "Engineering",
	}

	occupations = []string{
		"Teacher", "Doctor", "Engineer", "Business", "Government Job",
		"Banker", "Accountant", "Software Developer", "Shopkeeper", "Home Maker",
	}

	maritalStatuses = []string{"Single", "Divorced", "Widowed"}

	heights = []string{"5'2\"", "5'4\"", "5'6\"", "5'8\"", "5'10\"", "6'0\""}
)

// Seed populates the database with an admin, pending registrations and a
// share of approved accounts with live listings. The approved share goes
// through the real approval workflow so it carries proper grants.
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	if err := createAdmin(db); err != nil {
		return err
	}

	accounts, err := createAccounts(db, opts.NumAccounts)
	if err != nil {
		return err
	}

	approvals := service.NewApprovalService(db, repository.NewAccountRepository(db))
	tiers := models.Tiers()
	approved := 0
	for _, account := range accounts {
		if rand.Float64() >= opts.ApproveRatio {
			continue
		}
		tier := tiers[rand.Intn(len(tiers))]
		if _, err := approvals.Approve(context.Background(), account.ID, string(tier), time.Now()); err != nil {
			return fmt.Errorf("approving account %d: %w", account.ID, err)
		}
		approved++
	}

	log.Printf("Seeded %d accounts (%d approved) plus admin", len(accounts), approved)
	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []any{&models.ProfileUnlock{}, &models.Listing{}, &models.Account{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createAdmin(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Account{
		Name:       "Site Admin",
		Email:      "admin@rishta.local",
		Phone:      "+92 300 0000000",
		Password:   string(hash),
		Role:       models.RoleAdmin,
		Gender:     models.GenderMale,
		IsApproved: true,
		IsActive:   true,
	}
	return db.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error
}

func createAccounts(db *gorm.DB, count int) ([]models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	accounts := make([]models.Account, 0, count)
	for i := 0; i < count; i++ {
		account := buildAccount(i)
		account.Password = string(hash)
		if err := db.Create(&account).Error; err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// buildAccount constructs one realistic registration
func buildAccount(n int) models.Account {
	gender := models.GenderMale
	if n%2 == 1 {
		gender = models.GenderFemale
	}

	var name string
	if gender == models.GenderMale {
		name = gofakeit.FirstName() + " " + gofakeit.LastName()
	} else {
		name = gofakeit.Name()
	}

	city := cities[rand.Intn(len(cities))]

	return models.Account{
		Name:          name,
		Email:         fmt.Sprintf("seed%d.%s", n, gofakeit.Email()),
		Phone:         fmt.Sprintf("+92 3%02d %07d", rand.Intn(50), rand.Intn(10000000)),
		Role:          models.RoleUser,
		FatherName:    gofakeit.FirstName() + " " + gofakeit.LastName(),
		Age:           18 + rand.Intn(30),
		Gender:        gender,
		City:          city,
		Caste:         castes[rand.Intn(len(castes))],
		Sect:          sects[rand.Intn(len(sects))],
		Religion:      "Islam",
		Nationality:   "Pakistani",
		MotherTongue:  "Urdu",
		Height:        heights[rand.Intn(len(heights))],
		Weight:        fmt.Sprintf("%d kg", 50+rand.Intn(40)),
		MaritalStatus: maritalStatuses[rand.Intn(len(maritalStatuses))],
		Disability:    "None / No",
		Education:     educations[rand.Intn(len(educations))],
		Occupation:    occupations[rand.Intn(len(occupations))],
		MonthlyIncome: fmt.Sprintf("%d000 PKR", 3+rand.Intn(30)),
		HouseType:     "Own",
		HouseSize:     fmt.Sprintf("%d Marla", 3+rand.Intn(17)),
		About:         gofakeit.Paragraph(1, 2, 8, " "),
		Requirements:  gofakeit.Sentence(12),
		FamilyDetails: gofakeit.Sentence(15),
		Images: []string{
			fmt.Sprintf("https://i.pravatar.cc/400?u=%s", gofakeit.UUID()),
		},
		MainImage: fmt.Sprintf("https://i.pravatar.cc/400?u=%s", gofakeit.UUID()),
		IsActive:  true,
	}
}
