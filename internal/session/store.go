// Package session holds the client-side identity of the logged-in user and
// keeps it synchronized with the persisted token record.
package session

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/domain"
	"hotelguru/internal/navigation"
	"hotelguru/internal/observability"
	"hotelguru/internal/tokens"
)

// Fallback messages used when the backend gives no message of its own
const (
	MsgLoginFailed    = "Login failed. Please try again."
	MsgRegisterFailed = "Registration failed. Please try again."
	MsgProfileFailed  = "Failed to load profile."
	MsgUpdateFailed   = "Profile update failed."
)

// UserAPI is the account endpoint group the store drives
type UserAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*apiclient.Response, error)
	Register(ctx context.Context, reg domain.Registration) (*apiclient.Response, error)
	Me(ctx context.Context) (*apiclient.Response, error)
	Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*apiclient.Response, error)
}

// Navigator moves the application to another page
type Navigator interface {
	Push(ctx context.Context, loc navigation.Location) (navigation.Resolved, error)
}

// Store is the single source of truth for who is logged in. It is owned by
// the application root and shared by reference.
type Store struct {
	storage domain.ClientStorage
	users   UserAPI
	nav     Navigator

	mu    sync.RWMutex
	state domain.Session
	// loading counts operations in flight
	loading int
	// profileSeq orders profile fetches; only the latest issued may land.
	// Identity changes bump it too, dropping fetches for the old identity.
	profileSeq uint64
	// version numbers every committed change
	version uint64

	// notifyMu serializes delivery; delivered is the newest version handed out
	notifyMu  sync.Mutex
	delivered uint64

	obsMu     sync.Mutex
	observers map[int]func(domain.Session)
	nextObs   int
}

// NewStore restores the session from the persisted token record. A record
// whose access token does not decode is discarded.
func NewStore(ctx context.Context, storage domain.ClientStorage, users UserAPI, nav Navigator) *Store {
	s := &Store{
		storage:   storage,
		users:     users,
		nav:       nav,
		state:     domain.Session{Roles: []string{}},
		observers: make(map[int]func(domain.Session)),
	}

	pair, ok := tokens.Load(ctx, storage)
	if !ok {
		return s
	}

	claims, err := tokens.Decode(pair.AccessToken)
	if err != nil {
		observability.FromContext(ctx).Warn("discarding persisted tokens",
			slog.String("error", err.Error()))
		tokens.Purge(ctx, storage)
		return s
	}

	s.state.AccessToken = pair.AccessToken
	s.state.RefreshToken = pair.RefreshToken
	s.state.UserID = claims.Subject
	s.state.Roles = claims.Roles
	return s
}

// Login exchanges credentials for tokens, loads the profile and moves to the
// dashboard. Failures end up in LastLoginError.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) {
	log := observability.FromContext(ctx)

	s.update(func(st *domain.Session) {
		s.loading++
		s.profileSeq++
		st.LastLoginError = ""
		st.Profile = nil
	})
	defer s.doneLoading()

	resp, err := s.users.Login(ctx, creds)
	var pair domain.TokenPair
	if err == nil {
		if decErr := resp.Decode(&pair); decErr != nil || pair.AccessToken == "" {
			err = domain.ErrMalformedRecord
		}
	}
	if err == nil {
		err = tokens.Save(ctx, s.storage, pair)
	}
	if err != nil {
		log.Warn("login failed", slog.String("error", err.Error()))
		s.clear(ctx)
		s.update(func(st *domain.Session) {
			st.LastLoginError = errorMessage(err, MsgLoginFailed)
		})
		return
	}

	claims, err := tokens.Decode(pair.AccessToken)
	if err != nil {
		log.Error("could not decode token after login", slog.String("error", err.Error()))
		s.Logout(ctx)
		return
	}

	s.update(func(st *domain.Session) {
		st.AccessToken = pair.AccessToken
		st.RefreshToken = pair.RefreshToken
		st.UserID = claims.Subject
		st.Roles = claims.Roles
	})
	log.Info("logged in", slog.String("user_id", claims.Subject), slog.Any("roles", claims.Roles))

	s.FetchProfile(observability.WithUserID(ctx, claims.Subject))
	s.navigate(ctx, navigation.Location{Name: navigation.RouteDashboard})
}

// Logout clears the session and the persisted record, then navigates to the
// login page. Calling it again is harmless.
func (s *Store) Logout(ctx context.Context) {
	s.clear(ctx)
	s.navigate(ctx, navigation.Location{Path: "/login"})
}

// Register creates an account and moves to the login page. Failures end up
// in LastRegisterError.
func (s *Store) Register(ctx context.Context, reg domain.Registration) {
	s.update(func(st *domain.Session) {
		s.loading++
		st.LastRegisterError = ""
	})
	defer s.doneLoading()

	if _, err := s.users.Register(ctx, reg); err != nil {
		observability.FromContext(ctx).Warn("registration failed", slog.String("error", err.Error()))
		s.update(func(st *domain.Session) {
			st.LastRegisterError = registerErrorMessage(err)
		})
		return
	}

	s.navigate(ctx, navigation.Location{
		Name:  navigation.RouteLogin,
		Query: url.Values{"registered": {"success"}},
	})
}

// FetchProfile loads the profile of the current identity. Every call issues
// a request; when calls overlap, the one issued last decides the result.
func (s *Store) FetchProfile(ctx context.Context) {
	log := observability.FromContext(ctx)

	var seq uint64
	ready := false
	s.update(func(st *domain.Session) {
		if st.UserID == "" || st.AccessToken == "" {
			st.Profile = nil
			return
		}
		ready = true
		s.profileSeq++
		seq = s.profileSeq
		s.loading++
		st.LastProfileError = ""
	})
	if !ready {
		log.Warn("cannot fetch profile: user id or access token not available")
		return
	}
	defer s.doneLoading()

	resp, err := s.users.Me(ctx)
	var profile domain.Profile
	if err == nil {
		err = resp.Decode(&profile)
	}

	s.update(func(st *domain.Session) {
		if seq != s.profileSeq {
			log.Debug("dropping superseded profile response")
			return
		}
		if err != nil {
			log.Warn("failed to fetch profile", slog.String("error", err.Error()))
			st.Profile = nil
			st.LastProfileError = errorMessage(err, MsgProfileFailed)
			return
		}
		st.Profile = &profile
	})
}

// UpdateProfile sends the update for userID and merges the returned fields
// into the cached profile. The error is recorded and also returned.
func (s *Store) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.Profile, error) {
	log := observability.FromContext(ctx)

	var token string
	s.update(func(st *domain.Session) {
		if st.UserID == "" || st.UserID != userID {
			log.Warn("profile update for a different or missing user, leaving authorization to the backend",
				slog.String("user_id", st.UserID),
				slog.String("target_id", userID))
		}
		token = st.AccessToken
		s.loading++
		st.LastProfileError = ""
	})
	defer s.doneLoading()

	resp, err := s.users.Update(ctx, userID, update)
	if err != nil {
		log.Warn("profile update failed", slog.String("error", err.Error()))
		s.update(func(st *domain.Session) {
			st.LastProfileError = errorMessage(err, MsgUpdateFailed)
		})
		return domain.Profile{}, err
	}

	var merged domain.Profile
	var mergeErr error
	s.update(func(st *domain.Session) {
		var current domain.Profile
		if st.Profile != nil {
			current = *st.Profile
		}
		if len(resp.Body) == 0 {
			merged = current.Clone()
			return
		}
		merged, mergeErr = current.Merge(resp.Body)
		if mergeErr != nil {
			st.LastProfileError = MsgUpdateFailed
			return
		}
		if st.AccessToken != token {
			// identity changed while the request was in flight
			return
		}
		p := merged.Clone()
		st.Profile = &p
	})
	if mergeErr != nil {
		return domain.Profile{}, mergeErr
	}
	return merged, nil
}

// IsAuthenticated reports whether an access token is held in memory
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated()
}

func (s *Store) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.HasRole(role)
}

// Roles returns a copy of the decoded role set
func (s *Store) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone().Roles
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserID
}

// Snapshot returns a copy of the full session state
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every state change and returns a function
// removing it. fn runs outside the store lock, one notification at a time and
// in commit order; a change superseded before delivery is skipped. fn must not
// change the store.
func (s *Store) Subscribe(fn func(domain.Session)) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) snapshotLocked() domain.Session {
	snap := s.state.Clone()
	snap.IsLoading = s.loading > 0
	return snap
}

// update applies fn under the lock and notifies observers
func (s *Store) update(fn func(st *domain.Session)) {
	s.mu.Lock()
	fn(&s.state)
	s.version++
	version := s.version
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(version, snap)
}

func (s *Store) notify(version uint64, snap domain.Session) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version

	s.obsMu.Lock()
	fns := make([]func(domain.Session), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) doneLoading() {
	s.update(func(st *domain.Session) {
		if s.loading > 0 {
			s.loading--
		}
	})
}

// clear resets every field and removes the persisted record
func (s *Store) clear(ctx context.Context) {
	s.update(func(st *domain.Session) {
		s.profileSeq++
		*st = domain.Session{Roles: []string{}}
	})
	if err := tokens.Clear(ctx, s.storage); err != nil {
		observability.FromContext(ctx).Error("failed to remove persisted tokens",
			slog.String("error", err.Error()))
	}
}

func (s *Store) navigate(ctx context.Context, loc navigation.Location) {
	if s.nav == nil {
		return
	}
	if _, err := s.nav.Push(ctx, loc); err != nil {
		observability.FromContext(ctx).Warn("navigation failed",
			slog.String("target", loc.FullPath()),
			slog.String("name", loc.Name),
			slog.String("error", err.Error()))
	}
}
