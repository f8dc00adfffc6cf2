package models

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// GuestPasswordHash is stored for users synthesized by guest checkout.
// It is not a bcrypt hash, so no password ever matches it.
const GuestPasswordHash = "!guest"

// User is the model for the 'users' table
type User struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	FirstName     string     `json:"firstName" gorm:"size:100"`
	LastName      string     `json:"lastName" gorm:"size:100"`
	Email         string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Phone         string     `json:"phone" gorm:"size:32"`
	PasswordHash  string     `json:"-" gorm:"size:255;not null"`
	EmailVerified bool       `json:"emailVerified" gorm:"not null;default:false"`
	Status        string     `json:"status" gorm:"size:20;not null"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	Roles []Role `json:"roles,omitempty" gorm:"many2many:user_roles;"`
}

// Role is the model for the 'roles' table
type Role struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:32;uniqueIndex;not null"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// PrimaryRole picks the most privileged role for the access token.
func (u *User) PrimaryRole() string {
	switch {
	case u.HasRole(RoleAdmin):
		return RoleAdmin
	case u.HasRole(RoleStaff):
		return RoleStaff
	default:
		return RoleCustomer
	}
}

// SplitName turns "Nguyen Van An" into ("Nguyen", "Van An").
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword),
			errors.Is(err, bcrypt.ErrHashTooShort):
			return false, nil
		}
		return false, err
	}
	return true, nil
}
