package domain

import (
	"encoding/json"
	"fmt"
)

// Roles known to the backend
const (
	RoleAdministrator = "Administrator"
	RoleReceptionist  = "Receptionist"
	RoleGuest         = "Guest"
)

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Address is a postal address attached to a user
type Address struct {
	City       string `json:"city,omitempty"`
	Street     string `json:"street,omitempty"`
	PostalCode int    `json:"postalcode,omitempty"`
}

// Registration is the registration request body
type Registration struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Phone    string   `json:"phone,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

// Profile holds server-supplied user attributes
type Profile struct {
	ID          int      `json:"id"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	Address     *Address `json:"address,omitempty"`
}

// ProfileUpdate is the profile update request body. Empty fields are omitted
// so the backend only touches what was supplied.
type ProfileUpdate struct {
	Email       string   `json:"email,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	Password    string   `json:"password,omitempty"`
	Address     *Address `json:"address,omitempty"`
}

// Clone returns a deep copy of the profile
func (p Profile) Clone() Profile {
	c := p
	if p.Address != nil {
		a := *p.Address
		c.Address = &a
	}
	return c
}

// Merge shallow-merges the top-level fields present in raw over p. Fields the
// server returned win; fields it omitted keep their cached value. A returned
// address replaces the cached one as a whole.
func (p Profile) Merge(raw []byte) (Profile, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return p, fmt.Errorf("decode profile fields: %w", err)
	}

	merged := p.Clone()
	if _, ok := fields["address"]; ok {
		merged.Address = nil
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return p, fmt.Errorf("merge profile: %w", err)
	}
	return merged, nil
}
