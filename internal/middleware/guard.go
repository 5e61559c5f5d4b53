package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hotelguru/internal/domain"
	"hotelguru/internal/navigation"
	"hotelguru/internal/observability"
)

type contextKey string

const routeKey contextKey = "route"

// Navigator is the router the page guard pushes locations through
type Navigator interface {
	Resolve(loc navigation.Location) (navigation.Resolved, error)
	Push(ctx context.Context, loc navigation.Location) (navigation.Resolved, error)
}

// PageGuard navigates to the requested page. When the before-each hooks
// redirect, it answers 302 to where navigation ended.
func PageGuard(nav Navigator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requested := navigation.Location{Path: r.URL.Path, Query: r.URL.Query()}

			want, err := nav.Resolve(requested)
			if err != nil || !want.Found() {
				writeError(w, http.StatusNotFound, "Not Found")
				return
			}

			got, err := nav.Push(ctx, requested)
			if err != nil {
				if errors.Is(err, domain.ErrRouteNotFound) {
					writeError(w, http.StatusNotFound, "Not Found")
					return
				}
				observability.FromContext(ctx).Error("navigation failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				writeError(w, http.StatusInternalServerError, "Navigation failed")
				return
			}

			if got.Name != want.Name {
				http.Redirect(w, r, got.FullPath(), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithRoute(ctx, got)))
		})
	}
}

// RequireRoute gates an action on the guard rules of the named page without
// navigating. Unauthenticated callers get 401, callers lacking a role 403.
func RequireRoute(table *navigation.Table, session navigation.SessionView, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			to, err := table.Resolve(navigation.Location{Name: name})
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Unknown route")
				return
			}

			switch navigation.Decide(to, session).Outcome {
			case navigation.RedirectLogin:
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			case navigation.RedirectAccessDenied:
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithRoute stores the resolved page in ctx
func WithRoute(ctx context.Context, route navigation.Resolved) context.Context {
	return context.WithValue(ctx, routeKey, route)
}

// GetRoute returns the page resolved by PageGuard
func GetRoute(ctx context.Context) (navigation.Resolved, bool) {
	route, ok := ctx.Value(routeKey).(navigation.Resolved)
	return route, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
