package main

import (
	"fmt"
	"time"

	"github.com/alex-user-go/packages/internal/listing"
)

type catalog struct {
	hotels  []listing.HotelDTO
	flights []listing.FlightDTO
	events  []listing.EventDTO
}

type destination struct {
	country string
	city    string
	from    []string
	venue   string
}

var destinations = []destination{
	{country: "FR", city: "Paris", from: []string{"London", "Berlin"}, venue: "Accor Arena"},
	{country: "IT", city: "Rome", from: []string{"Madrid", "Vienna"}, venue: "Stadio Olimpico"},
	{country: "ES", city: "Barcelona", from: []string{"Paris", "Lisbon"}, venue: "Palau Sant Jordi"},
	{country: "GR", city: "Athens", from: []string{"Milan", "Munich"}, venue: "Odeon of Herodes Atticus"},
}

var airlines = []string{"Air France", "ITA Airways", "Iberia", "Aegean", "Lufthansa"}

const (
	isoDate     = "2006-01-02"
	isoDateTime = "2006-01-02T15:04:05"
)

// generateCatalog builds fixture listings relative to now. Each destination
// gets hotels with varied stars and room counts, a few flights over the next
// weeks and a couple of events. A handful of malformed records exercise the
// consumer's validation.
func generateCatalog(now time.Time) catalog {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return today.AddDate(0, 0, n) }

	var c catalog
	var hotelID, flightID, eventID int64

	for i, d := range destinations {
		for j, h := range []struct {
			name   string
			stars  int
			rooms  int
			price  float64
			from   int
			length int
		}{
			{"Grand Hotel", 5, 6, 240, 1, 60},
			{"City Center Inn", 4, 4, 130, 3, 45},
			{"Budget Stay", 3, 2, 70, 0, 90},
		} {
			hotelID++
			c.hotels = append(c.hotels, listing.HotelDTO{
				ID:            hotelID,
				Title:         fmt.Sprintf("%s %s", h.name, d.city),
				Description:   fmt.Sprintf("%d-star hotel in %s", h.stars, d.city),
				Price:         h.price + float64(i*10),
				Country:       d.country,
				Address:       fmt.Sprintf("%d Main Street", 10+j),
				City:          d.city,
				StarRating:    h.stars,
				TotalRooms:    h.rooms,
				AvailableFrom: day(h.from + i).Format(isoDate),
				AvailableTo:   day(h.from + i + h.length).Format(isoDate),
			})
		}

		for k, origin := range d.from {
			for _, offset := range []int{5, 12, 26} {
				flightID++
				dep := day(offset+k+i).Add(time.Duration(7+k*5) * time.Hour)
				c.flights = append(c.flights, listing.FlightDTO{
					ID:            flightID,
					Title:         fmt.Sprintf("%s to %s", origin, d.city),
					Price:         float64(90 + 35*k + offset*2),
					Country:       d.country,
					Airline:       airlines[(i+k)%len(airlines)],
					Departure:     origin,
					Arrival:       d.city,
					DepartureTime: dep.Format(isoDateTime),
					ArrivalTime:   dep.Add(2*time.Hour + 30*time.Minute).Format(isoDateTime),
					SeatCapacity:  120 + 30*k,
				})
			}
		}

		for k, offset := range []int{5, 20} {
			eventID++
			c.events = append(c.events, listing.EventDTO{
				ID:             eventID,
				Title:          fmt.Sprintf("%s Festival %d", d.city, k+1),
				Description:    "Live music and food",
				Price:          float64(45 + 20*k),
				Country:        d.country,
				Venue:          d.venue,
				EventDate:      day(offset + i).Add(20 * time.Hour).Format("2006-01-02 15:04"),
				TicketCapacity: 500,
			})
		}
	}

	// Malformed records.
	hotelID++
	c.hotels = append(c.hotels, listing.HotelDTO{
		ID: hotelID, Title: "Unlisted Hotel", Price: 99, Country: "FR", City: "Lyon",
		StarRating: 3, TotalRooms: 5, AvailableFrom: "tbd", AvailableTo: day(30).Format(isoDate),
	})
	flightID++
	c.flights = append(c.flights, listing.FlightDTO{
		ID: flightID, Airline: "Ghost Air", Price: 50, Country: "IT", Departure: "Nowhere", Arrival: "Rome",
		DepartureTime: "", ArrivalTime: day(4).Format(isoDateTime), SeatCapacity: 100,
	})
	eventID++
	c.events = append(c.events, listing.EventDTO{
		ID: eventID, Title: "Mystery Gig", Price: 10, Country: " ", Venue: "Unknown",
		EventDate: day(10).Format(isoDate), TicketCapacity: 100,
	})

	return c
}
