// Package portal assembles the local web front end of the hotel client.
package portal

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hotelguru/internal/domain"
	"hotelguru/internal/handler"
	"hotelguru/internal/middleware"
	"hotelguru/internal/navigation"
	"hotelguru/internal/resource"
	"hotelguru/internal/security"
	"hotelguru/internal/session"
	"hotelguru/internal/websocket"
)

// Deps are the long-lived components the portal serves
type Deps struct {
	Store          *session.Store
	Router         *navigation.Router
	API            *resource.Services
	Storage        domain.ClientStorage
	Hub            *websocket.Hub
	CSRF           *security.TokenManager
	AllowedOrigins []string
	// AuthRate and AuthBurst limit login and register per client IP
	AuthRate  float64
	AuthBurst int
}

// NewServer builds the portal routes. Rate limiter cleanup stops with ctx.
func NewServer(ctx context.Context, d Deps) http.Handler {
	if d.AuthRate <= 0 {
		d.AuthRate = 5
	}
	if d.AuthBurst <= 0 {
		d.AuthBurst = 10
	}

	table := d.Router.Table()
	pages := handler.NewPageHandler(d.Store, d.API, d.CSRF.Token())
	actions := handler.NewActionHandler(d.Store, d.Router, d.API)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(middleware.Metrics())

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(
		handler.BackendCheck(d.API.Catalog),
		handler.StorageCheck(d.Storage),
	))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws/session", handler.SessionFeed(d.Hub, d.AllowedOrigins))

	r.Group(func(r chi.Router) {
		r.Use(middleware.PageGuard(d.Router))
		for _, route := range table.Routes() {
			r.Get(chiPattern(route.Path), pages.ServeHTTP)
		}
	})

	r.Route("/actions", func(r chi.Router) {
		r.Use(middleware.CSRF(d.CSRF))

		authLimiter := middleware.NewRateLimiter(ctx, d.AuthRate, d.AuthBurst)
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/login", actions.Login)
			r.Post("/register", actions.Register)
		})

		r.Post("/logout", actions.Logout)
		r.Get("/rooms/{number}", actions.Room)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoute(table, d.Store, navigation.RouteProfile))
			r.Post("/profile/fetch", actions.FetchProfile)
			r.Put("/profile", actions.UpdateProfile)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoute(table, d.Store, navigation.RouteMyReservations))
			r.Post("/reservations", actions.CreateReservation)
			r.Delete("/reservations/{id}", actions.CancelReservation)
			r.Post("/reservations/{id}/services", actions.AddServices)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoute(table, d.Store, navigation.RouteAdminRooms))
			r.Post("/admin/rooms", actions.CreateRoom)
			r.Put("/admin/rooms/{id}", actions.UpdateRoom)
			r.Delete("/admin/rooms/{id}", actions.DeleteRoom)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found"}` + "\n"))
	})

	return r
}

// chiPattern rewrites ":param" segments into chi's "{param}" form
func chiPattern(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			segments[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}
