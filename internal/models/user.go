package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypePassenger UserType = "passenger"
	UserTypeDriver    UserType = "driver"
)

// VerificationStatus tracks the review state of a driver's documents.
// Only approved drivers may offer rides.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type User struct {
	gorm.Model         // This embeds ID, CreatedAt, UpdatedAt, and DeletedAt
	Username           string             `gorm:"column:username;unique;not null"`
	Email              string             `gorm:"column:email;unique;not null"`
	Password           string             `gorm:"-:migration"` // Temporary field for password handling
	PasswordHash       string             `gorm:"column:password_hash;not null"`
	PhoneNumber        string             `gorm:"column:phone_number"`
	UserType           UserType           `gorm:"column:user_type;not null"`
	VerificationStatus VerificationStatus `gorm:"column:verification_status;not null;default:'pending'"`
	VehicleCategory    string             `gorm:"column:vehicle_category;default:''"`
	CarPlate           string             `gorm:"column:car_plate;default:''"`
	CarMake            string             `gorm:"column:car_make;default:''"`
	CarColor           string             `gorm:"column:car_color;default:''"`
	DocumentURL        string             `gorm:"column:document_url;default:''"`
	FCMToken           string             `gorm:"column:fcm_token;default:''"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// CanOfferRides reports whether this user may create rides.
func (u *User) CanOfferRides() bool {
	return u.UserType == UserTypeDriver && u.VerificationStatus == VerificationApproved
}
