// Package quote renders a single package as a printable price quote.
package quote

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alex-user-go/packages/internal/bundle"
)

// ErrUnknownFormat is returned by Registry.Get for unregistered formats.
var ErrUnknownFormat = errors.New("unknown quote format")

// Currency is the symbol used for every amount.
const Currency = "€"

// Quote is one package priced for a party.
type Quote struct {
	Reference   string        `json:"reference"`
	Country     string        `json:"country"`
	Guests      int           `json:"guests"`
	GeneratedAt time.Time     `json:"generated_at"`
	Package     bundle.Bundle `json:"package"`
}

// LineItem is one priced component of a quote.
type LineItem struct {
	Label  string  `json:"label"`
	Detail string  `json:"detail"`
	Amount float64 `json:"amount"`
}

// New creates a quote with a fresh reference number.
func New(b bundle.Bundle, country string, guests int, now time.Time) Quote {
	return Quote{
		Reference:   strings.ToUpper(uuid.NewString()[:8]),
		Country:     country,
		Guests:      guests,
		GeneratedAt: now.UTC(),
		Package:     b,
	}
}

// Lines returns the priced components, hotel first.
func (q Quote) Lines() []LineItem {
	b := q.Package
	lines := []LineItem{{
		Label: "Hotel",
		Detail: fmt.Sprintf("%s, %s · %d night(s) × %s",
			b.Hotel.Title, b.Hotel.City, b.Nights, Money(b.Hotel.PricePerNight)),
		Amount: float64(b.Nights) * b.Hotel.PricePerNight,
	}}
	if f := b.Flight; f != nil {
		lines = append(lines, LineItem{
			Label: "Flight",
			Detail: fmt.Sprintf("%s %s → %s · %s",
				f.Airline, f.Departure, f.Arrival, f.DepartureTime.Format("2 Jan 2006 15:04")),
			Amount: f.Price,
		})
	}
	if e := b.Event; e != nil {
		lines = append(lines, LineItem{
			Label:  "Event",
			Detail: fmt.Sprintf("%s at %s · %s", e.Title, e.Venue, e.EventDate.Format("2 Jan 2006 15:04")),
			Amount: e.Price,
		})
	}
	return lines
}

// Filename returns the download name for the quote with the given extension.
func (q Quote) Filename(ext string) string {
	return fmt.Sprintf("quote-%s-%s.%s", q.Package.ID, strings.ToLower(q.Reference), ext)
}

// Money formats an amount, e.g. "€1,150.00".
func Money(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := Currency + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Renderer turns a quote into a document.
type Renderer interface {
	Key() string
	ContentType() string
	Extension() string
	Render(q Quote) ([]byte, error)
}

// Registry looks renderers up by key.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates a registry holding rs. Later renderers replace earlier
// ones with the same key.
func NewRegistry(rs ...Renderer) *Registry {
	r := &Registry{renderers: make(map[string]Renderer, len(rs))}
	for _, rr := range rs {
		r.renderers[rr.Key()] = rr
	}
	return r
}

// DefaultRegistry holds the text, JSON and PDF renderers.
func DefaultRegistry() *Registry {
	return NewRegistry(TextRenderer{}, JSONRenderer{}, PDFRenderer{})
}

// Get returns the renderer for key. Keys are case-insensitive.
func (r *Registry) Get(key string) (Renderer, error) {
	rr, ok := r.renderers[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, key, strings.Join(r.Keys(), ", "))
	}
	return rr, nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.renderers))
	for k := range r.renderers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
