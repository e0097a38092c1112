package listing

import "time"

// Hotel is a bookable hotel with an inclusive availability window.
type Hotel struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	PricePerNight float64   `json:"price_per_night"`
	StarRating    int       `json:"star_rating"`
	TotalRooms    int       `json:"total_rooms"`
	AvailableFrom time.Time `json:"available_from"`
	AvailableTo   time.Time `json:"available_to"`
}

// Flight is a single flight leg.
type Flight struct {
	ID            int64     `json:"id"`
	Airline       string    `json:"airline"`
	Departure     string    `json:"departure"`
	Arrival       string    `json:"arrival"`
	Country       string    `json:"country"`
	Price         float64   `json:"price"`
	SeatCapacity  int       `json:"seat_capacity"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

// Event is a ticketed event happening at a single point in time.
type Event struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Venue          string    `json:"venue"`
	Country        string    `json:"country"`
	Price          float64   `json:"price"`
	TicketCapacity int       `json:"ticket_capacity"`
	EventDate      time.Time `json:"event_date"`
}
