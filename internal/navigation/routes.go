package navigation

import "hotelguru/internal/domain"

// Route names referenced by the session store and the front ends
const (
	RouteHome           = "home"
	RouteLogin          = "login"
	RouteRegister       = "register"
	RouteAbout          = "about"
	RouteRooms          = "rooms"
	RouteDashboard      = "dashboard"
	RouteMyReservations = "my-reservations"
	RouteProfile        = "user-profile"
	RouteAdminRooms     = "admin-rooms"
	RouteAccessDenied   = "access-denied"
)

// DefaultRoutes returns the page routes of the hotel client
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Name: RouteHome},
		{Path: "/login", Name: RouteLogin},
		{Path: "/register", Name: RouteRegister},
		{Path: "/about", Name: RouteAbout},
		{Path: "/rooms", Name: RouteRooms},
		{Path: "/dashboard", Name: RouteDashboard, RequiresAuth: true},
		{Path: "/my-reservations", Name: RouteMyReservations, RequiresAuth: true},
		{Path: "/profile", Name: RouteProfile, RequiresAuth: true},
		{
			Path:         "/admin/rooms",
			Name:         RouteAdminRooms,
			RequiresAuth: true,
			Roles:        []string{domain.RoleAdministrator},
		},
		{Path: "/access-denied", Name: RouteAccessDenied},
	}
}

// DefaultTable builds the table of DefaultRoutes
func DefaultTable() *Table {
	t, err := NewTable(DefaultRoutes())
	if err != nil {
		panic(err)
	}
	return t
}
