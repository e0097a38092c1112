package listing

import (
	"errors"
	"strings"
	"time"
)

// HotelDTO is a hotel as served by the catalog backend.
type HotelDTO struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Country       string  `json:"country"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	StarRating    int     `json:"starRating"`
	TotalRooms    int     `json:"totalRooms"`
	AvailableFrom string  `json:"availableFrom"`
	AvailableTo   string  `json:"availableTo"`
}

// FlightDTO is a flight as served by the catalog backend.
type FlightDTO struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Country       string  `json:"country"`
	Airline       string  `json:"airline"`
	Departure     string  `json:"departure"`
	Arrival       string  `json:"arrival"`
	DepartureTime string  `json:"departureTime"`
	ArrivalTime   string  `json:"arrivalTime"`
	SeatCapacity  int     `json:"seatCapacity"`
}

// EventDTO is an event as served by the catalog backend.
type EventDTO struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Country        string  `json:"country"`
	Venue          string  `json:"venue"`
	EventDate      string  `json:"eventDate"`
	TicketCapacity int     `json:"ticketCapacity"`
}

// ErrBadTime is returned by ParseTime for empty or unrecognised input.
var ErrBadTime = errors.New("unrecognised date/time")

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses a catalog date or timestamp. A space separating date and
// time is accepted in place of "T". Values without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadTime
	}
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadTime
}

// ParseHotels converts catalog hotels, dropping records without a country or
// with a missing or unparsable availability window. It returns the number of
// dropped records.
func ParseHotels(in []HotelDTO) ([]Hotel, int) {
	out := make([]Hotel, 0, len(in))
	for _, d := range in {
		country := strings.TrimSpace(d.Country)
		if country == "" {
			continue
		}
		from, err := ParseTime(d.AvailableFrom)
		if err != nil {
			continue
		}
		to, err := ParseTime(d.AvailableTo)
		if err != nil {
			continue
		}
		out = append(out, Hotel{
			ID:            d.ID,
			Title:         strings.TrimSpace(d.Title),
			Description:   d.Description,
			City:          strings.TrimSpace(d.City),
			Country:       country,
			PricePerNight: d.Price,
			StarRating:    d.StarRating,
			TotalRooms:    d.TotalRooms,
			AvailableFrom: from,
			AvailableTo:   to,
		})
	}
	return out, len(in) - len(out)
}

// ParseFlights converts catalog flights, dropping records without a country
// or with a missing or unparsable departure or arrival time.
func ParseFlights(in []FlightDTO) ([]Flight, int) {
	out := make([]Flight, 0, len(in))
	for _, d := range in {
		country := strings.TrimSpace(d.Country)
		if country == "" {
			continue
		}
		dep, err := ParseTime(d.DepartureTime)
		if err != nil {
			continue
		}
		arr, err := ParseTime(d.ArrivalTime)
		if err != nil {
			continue
		}
		out = append(out, Flight{
			ID:            d.ID,
			Airline:       strings.TrimSpace(d.Airline),
			Departure:     strings.TrimSpace(d.Departure),
			Arrival:       strings.TrimSpace(d.Arrival),
			Country:       country,
			Price:         d.Price,
			SeatCapacity:  d.SeatCapacity,
			DepartureTime: dep,
			ArrivalTime:   arr,
		})
	}
	return out, len(in) - len(out)
}

// ParseEvents converts catalog events, dropping records without a country or
// a parsable event date.
func ParseEvents(in []EventDTO) ([]Event, int) {
	out := make([]Event, 0, len(in))
	for _, d := range in {
		country := strings.TrimSpace(d.Country)
		if country == "" {
			continue
		}
		at, err := ParseTime(d.EventDate)
		if err != nil {
			continue
		}
		out = append(out, Event{
			ID:             d.ID,
			Title:          strings.TrimSpace(d.Title),
			Venue:          strings.TrimSpace(d.Venue),
			Country:        country,
			Price:          d.Price,
			TicketCapacity: d.TicketCapacity,
			EventDate:      at,
		})
	}
	return out, len(in) - len(out)
}

