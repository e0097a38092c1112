package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/alex-user-go/packages/internal/listing"
)

// Source provides the raw listing collections of the catalog backend.
// An empty country asks for every listing.
type Source interface {
	Hotels(ctx context.Context, country string) ([]listing.HotelDTO, error)
	Flights(ctx context.Context, country string) ([]listing.FlightDTO, error)
	Events(ctx context.Context, country string) ([]listing.EventDTO, error)
}

// ErrUnavailable is returned when the catalog backend cannot serve a request.
var ErrUnavailable = errors.New("catalog unavailable")

// StatusError reports a non-200 response from the catalog backend.
type StatusError struct {
	Kind   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s returned status %d: %s", e.Kind, e.Status, e.Body)
}

// Unwrap makes 5xx responses match ErrUnavailable.
func (e *StatusError) Unwrap() error {
	if e.Status >= 500 {
		return ErrUnavailable
	}
	return nil
}
