package models

import "time"

// AccountPatch lists the profile fields an account holder may change.
type AccountPatch struct {
	DateOfBirth Optional[time.Time]
	Gender      Optional[Gender]
}

// HasChanges reports whether at least one field carries a value.
func (p AccountPatch) HasChanges() bool {
	_, dob := p.DateOfBirth.Get()
	_, gender := p.Gender.Get()
	return dob || gender
}
