package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/domain"
	"hotelguru/internal/middleware"
	"hotelguru/internal/navigation"
	"hotelguru/internal/observability"
	"hotelguru/internal/resource"
)

// SessionStore is the session surface the portal drives
type SessionStore interface {
	Login(ctx context.Context, creds domain.Credentials)
	Logout(ctx context.Context)
	Register(ctx context.Context, reg domain.Registration)
	FetchProfile(ctx context.Context)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.Profile, error)
	UserID() string
	Snapshot() domain.Session
}

// PageView is the view model every page renders
type PageView struct {
	Page      string          `json:"page"`
	Path      string          `json:"path"`
	Query     url.Values      `json:"query,omitempty"`
	Session   SessionView     `json:"session"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	CSRFToken string          `json:"csrf_token"`
}

type pageLoader func(ctx context.Context, r *http.Request) (json.RawMessage, error)

// PageHandler renders the page PageGuard resolved for the request
type PageHandler struct {
	session SessionStore
	api     *resource.Services
	csrf    string
	loaders map[string]pageLoader
}

// NewPageHandler creates a page handler embedding csrfToken in every view
func NewPageHandler(session SessionStore, api *resource.Services, csrfToken string) *PageHandler {
	h := &PageHandler{session: session, api: api, csrf: csrfToken}
	h.loaders = map[string]pageLoader{
		navigation.RouteDashboard:      h.profile,
		navigation.RouteProfile:        h.profile,
		navigation.RouteRooms:          h.rooms,
		navigation.RouteMyReservations: h.reservations,
		navigation.RouteAdminRooms:     h.adminRooms,
	}
	return h
}

// ServeHTTP must run behind middleware.PageGuard
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	route, ok := middleware.GetRoute(ctx)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Page not resolved")
		return
	}

	view := PageView{
		Page:      route.Name,
		Path:      route.Path,
		Query:     route.Query,
		CSRFToken: h.csrf,
	}

	if load, ok := h.loaders[route.Name]; ok {
		data, err := load(ctx, r)
		if err != nil {
			observability.FromContext(ctx).Warn("page data failed to load",
				slog.String("page", route.Name),
				slog.String("error", err.Error()))
			view.Error = errorText(err)
		} else {
			view.Data = data
		}
	}

	view.Session = newSessionView(h.session.Snapshot())
	writeJSON(w, http.StatusOK, view)
}

// profile serves the cached profile, loading it first when absent
func (h *PageHandler) profile(ctx context.Context, r *http.Request) (json.RawMessage, error) {
	snap := h.session.Snapshot()
	if snap.Profile == nil {
		h.session.FetchProfile(ctx)
		snap = h.session.Snapshot()
	}
	if snap.Profile == nil {
		msg := snap.LastProfileError
		if msg == "" {
			msg = "Profile not available"
		}
		return nil, pageError(msg)
	}
	return json.Marshal(snap.Profile)
}

func (h *PageHandler) rooms(ctx context.Context, r *http.Request) (json.RawMessage, error) {
	q := r.URL.Query()
	resp, err := h.api.Rooms.FindAvailable(ctx, domain.DateRange{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	})
	if err != nil {
		return nil, err
	}
	return rawOrNull(resp.Body), nil
}

// reservations loads the user's reservations and the service catalog
// concurrently
func (h *PageHandler) reservations(ctx context.Context, r *http.Request) (json.RawMessage, error) {
	var mine, services *apiclient.Response

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := h.api.Reservations.Mine(gctx)
		mine = resp
		return err
	})
	g.Go(func() error {
		resp, err := h.api.Catalog.List(gctx)
		services = resp
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return json.Marshal(map[string]json.RawMessage{
		"reservations": rawOrNull(mine.Body),
		"services":     rawOrNull(services.Body),
	})
}

func (h *PageHandler) adminRooms(ctx context.Context, r *http.Request) (json.RawMessage, error) {
	resp, err := h.api.AdminRooms.List(ctx)
	if err != nil {
		return nil, err
	}
	return rawOrNull(resp.Body), nil
}

type pageError string

func (e pageError) Error() string { return string(e) }
