package bundle

import (
	"time"

	"github.com/alex-user-go/packages/internal/listing"
)

func matchHotels(q Query, hotels []listing.Hotel) []listing.Hotel {
	out := make([]listing.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if h.Country != q.Country {
			continue
		}
		if q.Stars != 0 && h.StarRating != q.Stars {
			continue
		}
		if h.TotalRooms < q.Guests {
			continue
		}
		overlaps := within(h.AvailableFrom, q.From, q.To) ||
			within(h.AvailableTo, q.From, q.To) ||
			(!h.AvailableFrom.After(q.From) && !h.AvailableTo.Before(q.To))
		if !overlaps {
			continue
		}
		out = append(out, h)
	}
	return out
}

func matchFlights(q Query, flights []listing.Flight) []listing.Flight {
	out := make([]listing.Flight, 0, len(flights))
	for _, f := range flights {
		if f.Country != q.Country || f.SeatCapacity < q.Guests {
			continue
		}
		if !within(f.DepartureTime, q.From, q.To) || !within(f.ArrivalTime, q.From, q.To) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func matchEvents(q Query, events []listing.Event) []listing.Event {
	out := make([]listing.Event, 0, len(events))
	for _, ev := range events {
		if ev.Country != q.Country || ev.TicketCapacity < q.Guests {
			continue
		}
		if !within(ev.EventDate, q.From, q.To) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// within reports whether t lies in [start, end], inclusive.
func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func latest(first time.Time, rest ...time.Time) time.Time {
	out := first
	for _, t := range rest {
		if t.After(out) {
			out = t
		}
	}
	return out
}

func earliest(first time.Time, rest ...time.Time) time.Time {
	out := first
	for _, t := range rest {
		if t.Before(out) {
			out = t
		}
	}
	return out
}
