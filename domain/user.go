package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	FullName       string         `gorm:"column:full_name;not null" json:"full_name"`
	Email          string         `gorm:"column:email;unique;not null" json:"email"`
	Password       string         `gorm:"column:password;not null" json:"password,omitempty"`
	Phone          string         `gorm:"column:phone;not null" json:"phone"`
	Address        string         `gorm:"column:address;not null" json:"address"`
	SecurityAnswer string         `gorm:"column:security_answer;not null" json:"security_answer,omitempty"`
	Role           string         `gorm:"column:role;default:customer" json:"role"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Sanitize blanks the credential fields so the omitempty tags drop them
// from any JSON rendering of the record.
func (u *User) Sanitize() {
	u.Password = ""
	u.SecurityAnswer = ""
}
