package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alex-user-go/packages/internal/bundle"
)

const (
	dateLayout    = "2006-01-02"
	defaultGuests = 2
	anyStars      = "ANY"
)

// PackageParams holds validated package search parameters.
type PackageParams struct {
	Country string
	From    time.Time
	To      time.Time
	Guests  int
	// Stars is the exact star rating requested, 0 for any.
	Stars int
}

// Query converts the parameters into a bundler query.
func (p *PackageParams) Query() bundle.Query {
	return bundle.Query{
		Country: p.Country,
		From:    p.From,
		To:      p.To,
		Guests:  p.Guests,
		Stars:   p.Stars,
	}
}

// StarsLabel returns the star filter as given in the query string.
func (p *PackageParams) StarsLabel() string {
	if p.Stars == 0 {
		return anyStars
	}
	return strconv.Itoa(p.Stars)
}

// ParsePackageParams parses and validates package search parameters from
// the request. A range whose end precedes its start is accepted and matches
// nothing.
func ParsePackageParams(r *http.Request) (*PackageParams, error) {
	query := r.URL.Query()

	// Country - required, ISO 3166 alpha-2
	country := strings.ToUpper(strings.TrimSpace(query.Get("country")))
	if country == "" {
		return nil, fmt.Errorf("country is required")
	}
	if !isAlpha2(country) {
		return nil, fmt.Errorf("country must be a 2-letter code")
	}

	from, err := parseDate(query.Get("from"), "from")
	if err != nil {
		return nil, err
	}
	to, err := parseDate(query.Get("to"), "to")
	if err != nil {
		return nil, err
	}

	// Guests - optional, positive integer
	guests := defaultGuests
	if s := strings.TrimSpace(query.Get("guests")); s != "" {
		guests, err = strconv.Atoi(s)
		if err != nil || guests <= 0 {
			return nil, fmt.Errorf("guests must be a positive integer")
		}
	}

	// Stars - optional, ANY or 1-5
	stars := 0
	if s := strings.TrimSpace(query.Get("stars")); s != "" && !strings.EqualFold(s, anyStars) {
		stars, err = strconv.Atoi(s)
		if err != nil || stars < 1 || stars > 5 {
			return nil, fmt.Errorf("stars must be ANY or 1-5")
		}
	}

	return &PackageParams{
		Country: country,
		From:    from,
		To:      to,
		Guests:  guests,
		Stars:   stars,
	}, nil
}

func parseDate(s, name string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format", name)
	}
	return t, nil
}

func isAlpha2(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
