package types

import "github.com/alex-user-go/packages/internal/listing"

// Snapshot holds the parsed catalog listings for one destination. Failed
// names the collections that could not be fetched and are left empty.
type Snapshot struct {
	Hotels  []listing.Hotel  `json:"hotels"`
	Flights []listing.Flight `json:"flights"`
	Events  []listing.Event  `json:"events"`
	Failed  []string         `json:"failed,omitempty"`
	Dropped int              `json:"dropped"`
}

// CollectionsTotal is the number of catalog collections in a snapshot.
const CollectionsTotal = 3

// Succeeded returns the number of collections that were fetched.
func (s *Snapshot) Succeeded() int {
	return CollectionsTotal - len(s.Failed)
}
