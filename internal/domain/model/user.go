package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a storefront account. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"column:password_hash;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	FirstName    string    `gorm:"type:varchar(100)" json:"firstName,omitempty"`
	LastName     string    `gorm:"type:varchar(100)" json:"lastName,omitempty"`
	Address      string    `gorm:"type:varchar(255)" json:"address,omitempty"`
	City         string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	State        string    `gorm:"type:varchar(100)" json:"state,omitempty"`
	ZipCode      string    `gorm:"type:varchar(20)" json:"zipCode,omitempty"`
	Country      string    `gorm:"type:varchar(100)" json:"country,omitempty"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	TokenVersion int       `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
