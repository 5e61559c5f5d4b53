package domain

import (
	"errors"
	"slices"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMalformedToken   = errors.New("malformed access token")
	ErrMalformedRecord  = errors.New("malformed token record")
	ErrRouteNotFound    = errors.New("route not found")
)

// Session is the client-side view of who is logged in and with what rights.
// Identity fields come from an unverified token payload and only drive
// rendering and navigation; the backend remains the authority.
type Session struct {
	AccessToken       string   `json:"-"`
	RefreshToken      string   `json:"-"`
	UserID            string   `json:"user_id,omitempty"`
	Roles             []string `json:"roles"`
	Profile           *Profile `json:"profile,omitempty"`
	IsLoading         bool     `json:"is_loading"`
	LastLoginError    string   `json:"last_login_error,omitempty"`
	LastRegisterError string   `json:"last_register_error,omitempty"`
	LastProfileError  string   `json:"last_profile_error,omitempty"`
}

// IsAuthenticated reports whether an access token is held in memory
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// HasRole reports whether the decoded role set contains role
func (s Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

// Clone returns a deep copy safe to hand to observers
func (s Session) Clone() Session {
	c := s
	c.Roles = slices.Clone(s.Roles)
	if c.Roles == nil {
		c.Roles = []string{}
	}
	if s.Profile != nil {
		p := s.Profile.Clone()
		c.Profile = &p
	}
	return c
}
