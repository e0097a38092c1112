package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alex-user-go/packages/internal/catalog"
	"github.com/alex-user-go/packages/internal/listing"
	"github.com/alex-user-go/packages/internal/obs"
	"github.com/alex-user-go/packages/internal/search/types"
)

// Loader fetches catalog snapshots.
type Loader struct {
	source  catalog.Source
	timeout time.Duration
	metrics *obs.Metrics
	logger  *slog.Logger
}

// NewLoader creates a new Loader.
func NewLoader(source catalog.Source, timeout time.Duration, metrics *obs.Metrics, logger *slog.Logger) *Loader {
	return &Loader{
		source:  source,
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}
}

// Load fetches hotels, flights and events for country concurrently.
// A collection that fails to load is left empty; Load only fails when
// every collection fails.
func (l *Loader) Load(ctx context.Context, country string) (*types.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		snap = &types.Snapshot{}
		errs = make(map[string]error)
	)

	fail := func(kind string, err error) {
		mu.Lock()
		errs[kind] = err
		mu.Unlock()
		l.metrics.IncCatalogErrors()
	}

	wg.Go(func() {
		dtos, err := l.source.Hotels(ctx, country)
		if err != nil {
			fail("hotels", err)
			return
		}
		hotels, dropped := listing.ParseHotels(dtos)
		mu.Lock()
		snap.Hotels = hotels
		snap.Dropped += dropped
		mu.Unlock()
	})

	wg.Go(func() {
		dtos, err := l.source.Flights(ctx, country)
		if err != nil {
			fail("flights", err)
			return
		}
		flights, dropped := listing.ParseFlights(dtos)
		mu.Lock()
		snap.Flights = flights
		snap.Dropped += dropped
		mu.Unlock()
	})

	wg.Go(func() {
		dtos, err := l.source.Events(ctx, country)
		if err != nil {
			fail("events", err)
			return
		}
		events, dropped := listing.ParseEvents(dtos)
		mu.Lock()
		snap.Events = events
		snap.Dropped += dropped
		mu.Unlock()
	})

	wg.Wait()

	if snap.Dropped > 0 {
		l.metrics.AddDroppedRecords(snap.Dropped)
		l.logger.Warn("dropped malformed listings",
			"country", country,
			"dropped", snap.Dropped)
	}

	if len(errs) > 0 {
		for kind := range errs {
			snap.Failed = append(snap.Failed, kind)
		}
		sort.Strings(snap.Failed)

		l.logger.Error("catalog fetch errors",
			"country", country,
			"failed", snap.Failed,
			"errors", errs)

		if len(errs) == types.CollectionsTotal {
			return nil, fmt.Errorf("%w: %w", catalog.ErrUnavailable, errors.Join(
				errs["hotels"], errs["flights"], errs["events"]))
		}
	}

	if snap.Hotels == nil {
		snap.Hotels = []listing.Hotel{}
	}
	if snap.Flights == nil {
		snap.Flights = []listing.Flight{}
	}
	if snap.Events == nil {
		snap.Events = []listing.Event{}
	}

	return snap, nil
}
