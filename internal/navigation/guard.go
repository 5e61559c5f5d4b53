package navigation

import (
	"context"
	"log/slog"
	"net/url"
	"slices"

	"hotelguru/internal/observability"
)

// SessionView is the part of the session the guard consults
type SessionView interface {
	IsAuthenticated() bool
	Roles() []string
}

// Outcome of a guard decision
type Outcome string

const (
	Proceed              Outcome = "proceed"
	RedirectLogin        Outcome = "redirect_login"
	RedirectAccessDenied Outcome = "redirect_access_denied"
)

// Decision is the guard verdict for one transition
type Decision struct {
	Outcome  Outcome
	Redirect *Location
}

// Decide applies the guard rules to a resolved target. A role requirement is
// met by holding any one of the required roles.
func Decide(to Resolved, session SessionView) Decision {
	if !to.RequiresAuth() {
		return Decision{Outcome: Proceed}
	}
	if !session.IsAuthenticated() {
		return Decision{
			Outcome: RedirectLogin,
			Redirect: &Location{
				Name:  RouteLogin,
				Query: url.Values{"redirect": {to.FullPath()}},
			},
		}
	}
	if !hasAnyRole(session.Roles(), to.RequiredRoles()) {
		return Decision{
			Outcome:  RedirectAccessDenied,
			Redirect: &Location{Name: RouteAccessDenied},
		}
	}
	return Decision{Outcome: Proceed}
}

func hasAnyRole(held, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if slices.Contains(held, r) {
			return true
		}
	}
	return false
}

// Guard returns the before-each hook enforcing Decide against session
func Guard(session SessionView) Hook {
	return func(ctx context.Context, to, from Resolved) (*Location, error) {
		d := Decide(to, session)

		route := to.Name
		if route == "" {
			route = "unknown"
		}
		observability.GuardDecisionsTotal.WithLabelValues(route, string(d.Outcome)).Inc()

		observability.FromContext(ctx).Debug("navigation guard",
			slog.String("to", to.FullPath()),
			slog.String("from", from.FullPath()),
			slog.Bool("requires_auth", to.RequiresAuth()),
			slog.Bool("authenticated", session.IsAuthenticated()),
			slog.Any("required_roles", to.RequiredRoles()),
			slog.Any("roles", session.Roles()),
			slog.String("outcome", string(d.Outcome)))

		return d.Redirect, nil
	}
}
