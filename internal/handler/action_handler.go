package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hotelguru/internal/domain"
	"hotelguru/internal/navigation"
	"hotelguru/internal/resource"
)

// Locator reports where navigation currently is
type Locator interface {
	Current() navigation.Resolved
}

// ActionResult answers the session actions. Location is where navigation
// ended after the action.
type ActionResult struct {
	Session  SessionView     `json:"session"`
	Location string          `json:"location,omitempty"`
	Profile  *domain.Profile `json:"profile,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ActionHandler serves the state-changing endpoints. Session actions go
// through the store; resource actions relay the backend answer unmodified.
type ActionHandler struct {
	session SessionStore
	nav     Locator
	api     *resource.Services
}

// NewActionHandler creates an action handler
func NewActionHandler(session SessionStore, nav Locator, api *resource.Services) *ActionHandler {
	return &ActionHandler{session: session, nav: nav, api: api}
}

func (h *ActionHandler) result(errMsg string) ActionResult {
	return ActionResult{
		Session:  newSessionView(h.session.Snapshot()),
		Location: h.nav.Current().FullPath(),
		Error:    errMsg,
	}
}

// Login handles POST /actions/login
func (h *ActionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	h.session.Login(r.Context(), creds)

	snap := h.session.Snapshot()
	if !snap.IsAuthenticated() {
		writeJSON(w, http.StatusUnauthorized, h.result(snap.LastLoginError))
		return
	}
	writeJSON(w, http.StatusOK, h.result(""))
}

// Logout handles POST /actions/logout
func (h *ActionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout(r.Context())
	writeJSON(w, http.StatusOK, h.result(""))
}

// Register handles POST /actions/register
func (h *ActionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if !decodeBody(w, r, &reg) {
		return
	}

	h.session.Register(r.Context(), reg)

	if msg := h.session.Snapshot().LastRegisterError; msg != "" {
		writeJSON(w, http.StatusBadRequest, h.result(msg))
		return
	}
	writeJSON(w, http.StatusCreated, h.result(""))
}

// FetchProfile handles POST /actions/profile/fetch
func (h *ActionHandler) FetchProfile(w http.ResponseWriter, r *http.Request) {
	h.session.FetchProfile(r.Context())

	snap := h.session.Snapshot()
	res := h.result(snap.LastProfileError)
	res.Profile = snap.Profile
	if snap.Profile == nil {
		if res.Error == "" {
			res.Error = "Profile not available"
		}
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateProfile handles PUT /actions/profile for the logged-in user
func (h *ActionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProfileUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	profile, err := h.session.UpdateProfile(r.Context(), h.session.UserID(), upd)
	if err != nil {
		res := h.result(h.session.Snapshot().LastProfileError)
		if res.Error == "" {
			res.Error = errorText(err)
		}
		writeJSON(w, statusOf(err), res)
		return
	}

	res := h.result("")
	res.Profile = &profile
	writeJSON(w, http.StatusOK, res)
}

// CreateReservation handles POST /actions/reservations
func (h *ActionHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req domain.ReservationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.api.Reservations.Create(r.Context(), req)
	relay(w, resp, err)
}

// CancelReservation handles DELETE /actions/reservations/{id}
func (h *ActionHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	resp, err := h.api.Reservations.Cancel(r.Context(), id)
	relay(w, resp, err)
}

// AddServices handles POST /actions/reservations/{id}/services
func (h *ActionHandler) AddServices(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req domain.AddServicesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.api.Reservations.AddServices(r.Context(), id, req)
	relay(w, resp, err)
}

// CreateRoom handles POST /actions/admin/rooms
func (h *ActionHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req domain.RoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.api.AdminRooms.Create(r.Context(), req)
	relay(w, resp, err)
}

// UpdateRoom handles PUT /actions/admin/rooms/{id}
func (h *ActionHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req domain.RoomUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.api.AdminRooms.Update(r.Context(), id, req)
	relay(w, resp, err)
}

// DeleteRoom handles DELETE /actions/admin/rooms/{id}
func (h *ActionHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	resp, err := h.api.AdminRooms.Delete(r.Context(), id)
	relay(w, resp, err)
}

// Room handles GET /actions/rooms/{number}
func (h *ActionHandler) Room(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid room number")
		return
	}
	resp, err := h.api.Rooms.GetByNumber(r.Context(), number)
	relay(w, resp, err)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
