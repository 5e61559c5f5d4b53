package domain

// ReservationUser is the user summary embedded in a reservation
type ReservationUser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ReservationRoom is the room summary embedded in a reservation
type ReservationRoom struct {
	ID     int    `json:"id"`
	Number int    `json:"number"`
	Floor  int    `json:"floor"`
	Name   string `json:"name"`
}

// Reservation as returned by the reservation endpoints
type Reservation struct {
	ID              int               `json:"id"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	ReservationDate string            `json:"reservation_date,omitempty"`
	User            *ReservationUser  `json:"user,omitempty"`
	Rooms           []ReservationRoom `json:"rooms,omitempty"`
	Deleted         int               `json:"deleted,omitempty"`
}

// ReservationRequest is the reservation creation body
type ReservationRequest struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	RoomNumbers []int  `json:"room_numbers"`
}

// ServiceItem is an extra service bookable on a reservation
type ServiceItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Deleted     int     `json:"deleted,omitempty"`
}

// AddServicesRequest attaches services to a reservation
type AddServicesRequest struct {
	ServiceIDs []int `json:"service_ids"`
}
