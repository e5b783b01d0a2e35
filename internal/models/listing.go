package models

import "time"

// Listing is the published, read-facing projection of an approved Account.
// Fields are denormalized at approval time; the unique index on AccountID
// guarantees at most one listing per account even under approval retries.
type Listing struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AccountID uint `gorm:"not null;uniqueIndex" json:"account_id"`

	Title         string `gorm:"size:160" json:"title"`
	Name          string `gorm:"size:120;not null" json:"name"`
	FatherName    string `gorm:"size:120" json:"father_name,omitempty"`
	Phone         string `gorm:"size:32" json:"phone,omitempty"`
	Age           int    `json:"age"`
	Gender        Gender `gorm:"type:varchar(10);not null;index" json:"gender"`
	City          string `gorm:"size:80" json:"city"`
	Caste         string `gorm:"size:80" json:"caste"`
	Sect          string `gorm:"size:80" json:"sect"`
	Religion      string `gorm:"size:80" json:"religion"`
	Nationality   string `gorm:"size:80" json:"nationality"`
	MotherTongue  string `gorm:"size:80" json:"mother_tongue"`
	Height        string `gorm:"size:40" json:"height"`
	Weight        string `gorm:"size:40" json:"weight"`
	MaritalStatus string `gorm:"size:40" json:"marital_status"`
	Disability    string `gorm:"size:120" json:"disability"`
	Education     string `gorm:"size:120" json:"education"`
	Profession    string `gorm:"size:120" json:"profession"`
	MonthlyIncome string `gorm:"size:40" json:"monthly_income"`
	HouseType     string `gorm:"size:40" json:"house_type"`
	HouseSize     string `gorm:"size:40" json:"house_size"`
	About         string `gorm:"type:text" json:"about"`
	Requirements  string `gorm:"type:text" json:"requirements"`
	FamilyDetails string `gorm:"type:text" json:"family_details,omitempty"`

	MainImage string   `json:"main_image"`
	Gallery   []string `gorm:"serializer:json" json:"gallery"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedactedListing is a listing payload stamped with its lock state. When
// locked, direct-contact and family fields are stripped before marshaling.
type RedactedListing struct {
	Listing
	IsLocked bool `json:"is_locked"`
}

// ProfileUnlock records that an account spent (or was entitled to) a view of
// a listing. Rows are append-only; the composite unique index is what makes
// re-unlocking free and double-charging impossible at the storage layer.
type ProfileUnlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;uniqueIndex:idx_account_listing" json:"account_id"`
	ListingID uint      `gorm:"not null;uniqueIndex:idx_account_listing" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

// UnlockResult is returned by the unlock operation.
type UnlockResult struct {
	AlreadyUnlocked bool `json:"already_unlocked"`
	Credits         int  `json:"credits"`
}
