package domain

// RoomType is the category a room belongs to
type RoomType struct {
	Name string `json:"name"`
}

// Room as returned by the room listing endpoints
type Room struct {
	ID          int       `json:"id,omitempty"`
	Number      int       `json:"number"`
	Floor       int       `json:"floor"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	IsAvailable *bool     `json:"is_available,omitempty"`
	RoomTypeID  *int      `json:"room_type_id,omitempty"`
	RoomType    *RoomType `json:"room_type,omitempty"`
}

// RoomRequest is the admin room creation body
type RoomRequest struct {
	Number      int     `json:"number"`
	Floor       int     `json:"floor"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	RoomTypeID  int     `json:"room_type_id"`
	Description string  `json:"description,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// RoomUpdate is the admin room update body. Nil fields are left untouched.
type RoomUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	IsAvailable *bool    `json:"is_available,omitempty"`
	RoomTypeID  *int     `json:"room_type_id,omitempty"`
}

// DateRange filters room availability. Dates are YYYY-MM-DD.
type DateRange struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Complete reports whether both bounds are supplied
func (d DateRange) Complete() bool {
	return d.StartDate != "" && d.EndDate != ""
}
