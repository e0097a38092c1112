// Package bundle combines hotel stays with optional flights and events into
// priced packages for a destination and date range.
package bundle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alex-user-go/packages/internal/listing"
)

const (
	// MaxResults caps the number of packages Build returns.
	MaxResults = 40
	// MaxStayNights caps hotel-only and hotel+event stays.
	MaxStayNights = 14

	day          = 24 * time.Hour
	windowLayout = "2 Jan 2006"
)

// ErrNotFound is returned by Find when no package has the requested id.
var ErrNotFound = errors.New("package not found")

// Kind describes which listing types a package combines.
type Kind string

const (
	KindHotel            Kind = "hotel"
	KindHotelFlight      Kind = "hotel_flight"
	KindHotelEvent       Kind = "hotel_event"
	KindHotelFlightEvent Kind = "hotel_flight_event"
)

// Query selects the packages to build.
type Query struct {
	Country string
	From    time.Time
	To      time.Time
	Guests  int
	// Stars filters hotels by exact star rating. Zero matches any rating.
	Stars int
}

// Valid reports whether the query has a usable date range.
func (q Query) Valid() bool {
	return !q.From.IsZero() && !q.To.IsZero() && !q.To.Before(q.From)
}

// Bundle is one priced package. It references exactly one hotel and at most
// one flight and one event.
type Bundle struct {
	ID     string          `json:"id"`
	Kind   Kind            `json:"kind"`
	Hotel  listing.Hotel   `json:"hotel"`
	Flight *listing.Flight `json:"flight,omitempty"`
	Event  *listing.Event  `json:"event,omitempty"`
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Nights int             `json:"nights"`
	Window string          `json:"window"`
	Total  float64         `json:"total"`
}

// Build returns the cheapest packages for q, at most MaxResults, sorted by
// total price. The same hotel may appear in several packages. An invalid date
// range yields no packages.
func Build(q Query, hotels []listing.Hotel, flights []listing.Flight, events []listing.Event) []Bundle {
	if !q.Valid() {
		return []Bundle{}
	}

	hs := matchHotels(q, hotels)
	fs := matchFlights(q, flights)
	es := matchEvents(q, events)

	out := make([]Bundle, 0)

	// Flight-driven packages: the stay follows the flight.
	for i := range fs {
		f := &fs[i]
		for _, h := range hs {
			if h.AvailableFrom.After(f.DepartureTime) || h.AvailableTo.Before(f.ArrivalTime) {
				continue
			}
			b, ok := newBundle(h, f.DepartureTime, f.ArrivalTime)
			if !ok {
				continue
			}
			b.Flight = f
			b.Total += f.Price
			out = append(out, b.finish())

			for j := range es {
				ev := &es[j]
				if !within(ev.EventDate, f.DepartureTime, f.ArrivalTime) {
					continue
				}
				be := b
				be.Event = ev
				be.Total += ev.Price
				out = append(out, be.finish())
			}
		}
	}

	// Hotel-only packages, capped at MaxStayNights.
	for _, h := range hs {
		start := latest(q.From, h.AvailableFrom)
		end := earliest(q.To, h.AvailableTo, start.Add(MaxStayNights*day))
		if b, ok := newBundle(h, start, end); ok {
			out = append(out, b.finish())
		}
	}

	// Hotel+event packages, centred on the event.
	for _, h := range hs {
		for j := range es {
			ev := &es[j]
			start := ev.EventDate.Add(-(MaxStayNights / 2) * day)
			end := start.Add(MaxStayNights * day)
			start = latest(start, q.From, h.AvailableFrom)
			end = earliest(end, q.To, h.AvailableTo)
			b, ok := newBundle(h, start, end)
			if !ok {
				continue
			}
			b.Event = ev
			b.Total += ev.Price
			out = append(out, b.finish())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total < out[j].Total
	})
	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

// Find builds the packages for q and returns the one with the given id.
func Find(q Query, hotels []listing.Hotel, flights []listing.Flight, events []listing.Event, id string) (Bundle, error) {
	for _, b := range Build(q, hotels, flights, events) {
		if b.ID == id {
			return b, nil
		}
	}
	return Bundle{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Nights returns the whole days between start and end, never less than one.
func Nights(start, end time.Time) int {
	n := int(end.Sub(start) / day)
	if n < 1 {
		return 1
	}
	return n
}

// Window formats a stay window for display, e.g. "5 Jun 2024 – 7 Jun 2024".
func Window(start, end time.Time) string {
	return start.Format(windowLayout) + " – " + end.Format(windowLayout)
}

// newBundle prices a hotel stay over [start, end]. It rejects inverted
// windows.
func newBundle(h listing.Hotel, start, end time.Time) (Bundle, bool) {
	if end.Before(start) {
		return Bundle{}, false
	}
	nights := Nights(start, end)
	return Bundle{
		Hotel:  h,
		Start:  start,
		End:    end,
		Nights: nights,
		Window: Window(start, end),
		Total:  float64(nights) * h.PricePerNight,
	}, true
}

// finish derives the id and kind from the attached listings.
func (b Bundle) finish() Bundle {
	var id strings.Builder
	fmt.Fprintf(&id, "h%d", b.Hotel.ID)
	switch {
	case b.Flight != nil && b.Event != nil:
		b.Kind = KindHotelFlightEvent
	case b.Flight != nil:
		b.Kind = KindHotelFlight
	case b.Event != nil:
		b.Kind = KindHotelEvent
	default:
		b.Kind = KindHotel
	}
	if b.Flight != nil {
		fmt.Fprintf(&id, "-f%d", b.Flight.ID)
	}
	if b.Event != nil {
		fmt.Fprintf(&id, "-e%d", b.Event.ID)
	}
	b.ID = id.String()
	return b
}
