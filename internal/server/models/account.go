package models

import (
	"time"
)

// Gender is the enumerated self-described gender of an account holder.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the known values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Account is the stored identity and credential record.
// PasswordHash never leaves the store adapter, the hasher and the service.
type Account struct {
	ID           string
	Email        string
	FullName     string
	DateOfBirth  time.Time
	Gender       Gender
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// PublicAccount is the client-facing view of an Account.
type PublicAccount struct {
	ID          string    `json:"_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      Gender    `json:"gender"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public strips the credential from a.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:          a.ID,
		FullName:    a.FullName,
		Email:       a.Email,
		DateOfBirth: a.DateOfBirth,
		Gender:      a.Gender,
		IsAdmin:     a.IsAdmin,
		CreatedAt:   a.CreatedAt,
	}
}
