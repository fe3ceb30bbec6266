package httpapi

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/server/models"
)

// Date accepts a calendar date ("2000-01-01") or a datetime with or without
// a zone ("2000-01-01T00:00:00", RFC 3339). Values without a zone are UTC.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// ErrInvalidDate is returned for dates in none of the accepted layouts.
var ErrInvalidDate = errors.New("date_of_birth must be YYYY-MM-DD or an ISO 8601 datetime")

func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}, nil
		}
	}
	return Date{}, ErrInvalidDate
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type registerRequest struct {
	FullName    string `json:"full_name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	DateOfBirth Date   `json:"date_of_birth" validate:"required"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
	Password    string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	DateOfBirth models.Optional[Date]          `json:"date_of_birth"`
	Gender      models.Optional[models.Gender] `json:"gender"`
}

func (r updateProfileRequest) patch() models.AccountPatch {
	var p models.AccountPatch
	if d, ok := r.DateOfBirth.Get(); ok {
		p.DateOfBirth = models.Some(d.Time)
	} else if r.DateOfBirth.IsNull() {
		p.DateOfBirth = models.Null[time.Time]()
	}
	p.Gender = r.Gender
	return p
}

type loginResponse struct {
	AccessToken string                `json:"access_token"`
	TokenType   string                `json:"token_type"`
	User        *models.PublicAccount `json:"user"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
