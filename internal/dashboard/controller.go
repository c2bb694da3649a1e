// Package dashboard answers the map renderer's questions: for the current
// day and preference, what is each region's score and category.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/suitability-map/internal/cache"
	"github.com/couchcryptid/suitability-map/internal/domain"
	"github.com/couchcryptid/suitability-map/internal/observability"
)

// ErrUnknownRegion is returned by Assess for a code outside the region catalog.
// A known region with no forecast data is not an error; it scores 0.
var ErrUnknownRegion = errors.New("unknown region")

// Publisher receives full-map sweeps for downstream renderers.
type Publisher interface {
	PublishSweep(ctx context.Context, sweep Sweep) error
}

// Assessment is one region's suitability under a selection. It carries raw
// values only; presentation is the renderer's job.
type Assessment struct {
	Region     domain.Region        `json:"region"`
	Day        int                  `json:"day"`
	Preference domain.PreferenceKey `json:"preference"`
	HasData    bool                 `json:"has_data"`
	Forecast   *domain.ForecastDay  `json:"forecast,omitempty"`
	Score      int                  `json:"score"`
	Category   domain.Category      `json:"category"`
}

// Sweep is every known region assessed under one selection.
type Sweep struct {
	Selection  domain.SelectionState `json:"selection"`
	Band       domain.PreferenceBand `json:"band"`
	Generation uint64                `json:"generation"`
	LoadedAt   time.Time             `json:"loaded_at"`
	Regions    []Assessment          `json:"regions"`
	Summary    map[domain.Tier]int   `json:"summary"`
}

type memoKey struct {
	generation uint64
	code       string
	day        int
	preference domain.PreferenceKey
}

type regionIndex struct {
	ordered []domain.Region
	byCode  map[string]domain.Region
}

// dataset pairs a region catalog with the forecast snapshot it was loaded
// with. Readers take both from one pointer.
type dataset struct {
	regions *regionIndex
	snap    *domain.Snapshot
}

// Controller owns the session's selection state and scores regions against
// the forecast store.
type Controller struct {
	store     *domain.ForecastStore
	data      atomic.Pointer[dataset]
	loadMu    sync.Mutex
	memo      *cache.LRU[memoKey, int]
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu        sync.RWMutex
	selection domain.SelectionState
}

// New creates a Controller with default selection. Pass a nil publisher to
// disable Broadcast.
func New(store *domain.ForecastStore, publisher Publisher, memoSize int, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	return &Controller{
		store:     store,
		memo:      cache.NewLRU[memoKey, int](memoSize),
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		selection: domain.NewSelectionState(),
	}
}

// Load publishes a new region catalog and forecast set. The forecast store is
// replaced first; if it rejects the set, nothing changes. Once Load has
// succeeded, readers see the catalog and forecasts as one unit.
func (c *Controller) Load(regions []domain.Region, set domain.ForecastSet) error {
	idx := &regionIndex{
		ordered: slices.Clone(regions),
		byCode:  make(map[string]domain.Region, len(regions)),
	}
	slices.SortFunc(idx.ordered, func(a, b domain.Region) int {
		return strings.Compare(a.Code, b.Code)
	})
	for _, r := range idx.ordered {
		idx.byCode[r.Code] = r
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	snap, err := c.store.Publish(set)
	if err != nil {
		return err
	}
	c.data.Store(&dataset{regions: idx, snap: snap})
	c.metrics.RegionsLoaded.Set(float64(len(idx.ordered)))
	return nil
}

// Selection returns a copy of the current selection.
func (c *Controller) Selection() domain.SelectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection
}

// SetDay changes the selected forecast day. Setting the current day is a no-op.
func (c *Controller) SetDay(day int) error {
	_, err := c.SetSelection(&day, nil)
	return err
}

// SetPreference changes the selected preference band. Setting the current
// preference is a no-op.
func (c *Controller) SetPreference(key domain.PreferenceKey) error {
	_, err := c.SetSelection(nil, &key)
	return err
}

// SetSelection applies a partial update under one lock. Nil fields are left
// alone. Both fields are validated before either is applied, so a rejected
// update leaves the selection as it was. It returns the resulting selection.
func (c *Controller) SetSelection(day *int, key *domain.PreferenceKey) (domain.SelectionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.selection
	if day != nil {
		if err := next.SetDay(*day); err != nil {
			c.metrics.SelectionRejected.WithLabelValues("invalid_index").Inc()
			return c.selection, err
		}
	}
	if key != nil {
		if err := next.SetPreference(*key); err != nil {
			c.metrics.SelectionRejected.WithLabelValues("unknown_preference").Inc()
			return c.selection, err
		}
	}

	if next.Day != c.selection.Day {
		c.metrics.SelectionChanges.WithLabelValues("day").Inc()
		c.logger.Debug("selection changed", "day", next.Day)
	}
	if next.Preference != c.selection.Preference {
		c.metrics.SelectionChanges.WithLabelValues("preference").Inc()
		c.logger.Debug("selection changed", "preference", next.Preference)
	}
	c.selection = next
	return next, nil
}

// Assess scores one region under the current selection.
func (c *Controller) Assess(code string) (Assessment, error) {
	d := c.current()
	region, ok := d.lookupRegion(code)
	if !ok {
		return Assessment{}, fmt.Errorf("%w: %q", ErrUnknownRegion, code)
	}
	sel := c.Selection()
	return c.assess(d.snap, region, sel, sel.Band()), nil
}

// Sweep scores every known region under one consistent copy of the
// selection and one forecast snapshot, ordered by region code.
func (c *Controller) Sweep() Sweep {
	d := c.current()
	sel := c.Selection()
	band := sel.Band()

	regions := d.knownRegions()
	out := Sweep{
		Selection:  sel,
		Band:       band,
		Generation: d.snap.Generation(),
		LoadedAt:   d.snap.LoadedAt(),
		Regions:    make([]Assessment, 0, len(regions)),
		Summary:    make(map[domain.Tier]int, 5),
	}
	for _, cat := range domain.Legend() {
		out.Summary[cat.Tier] = 0
	}
	for _, r := range regions {
		a := c.assess(d.snap, r, sel, band)
		out.Regions = append(out.Regions, a)
		out.Summary[a.Category.Tier]++
	}
	for tier, n := range out.Summary {
		c.metrics.RegionsByTier.WithLabelValues(string(tier)).Set(float64(n))
	}
	return out
}

// Broadcast hands the current sweep to the publisher, if one is configured.
func (c *Controller) Broadcast(ctx context.Context) error {
	if c.publisher == nil {
		return nil
	}
	sweep := c.Sweep()
	if err := c.publisher.PublishSweep(ctx, sweep); err != nil {
		c.metrics.SweepsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("publish sweep: %w", err)
	}
	c.metrics.SweepsPublished.WithLabelValues("success").Inc()
	c.logger.Debug("sweep published",
		"regions", len(sweep.Regions),
		"day", sweep.Selection.Day,
		"preference", sweep.Selection.Preference,
	)
	return nil
}

func (c *Controller) assess(snap *domain.Snapshot, region domain.Region, sel domain.SelectionState, band domain.PreferenceBand) Assessment {
	a := Assessment{
		Region:     region,
		Day:        sel.Day,
		Preference: band.Key,
	}
	fd, ok := snap.Get(region.Code, sel.Day)
	if ok {
		a.HasData = true
		a.Forecast = &fd
	}
	key := memoKey{generation: snap.Generation(), code: region.Code, day: sel.Day, preference: band.Key}
	a.Score = c.score(key, a.Forecast, band)
	a.Category = domain.Classify(a.Score)
	return a
}

func (c *Controller) score(key memoKey, fd *domain.ForecastDay, band domain.PreferenceBand) int {
	if s, ok := c.memo.Get(key); ok {
		c.metrics.ScoreCache.WithLabelValues("hit").Inc()
		return s
	}
	c.metrics.ScoreCache.WithLabelValues("miss").Inc()
	s := domain.Score(fd, band)
	c.memo.Put(key, s)
	return s
}

// current returns the dataset published by Load. Before the first Load it
// reads the store directly and derives regions from its codes.
func (c *Controller) current() *dataset {
	if d := c.data.Load(); d != nil {
		return d
	}
	return &dataset{snap: c.store.Snapshot()}
}

func (d *dataset) lookupRegion(code string) (domain.Region, bool) {
	if d.regions != nil {
		r, ok := d.regions.byCode[code]
		return r, ok
	}
	if _, ok := d.snap.Forecast(code); ok {
		return domain.Region{Code: code, Name: code}, true
	}
	return domain.Region{}, false
}

func (d *dataset) knownRegions() []domain.Region {
	if d.regions != nil {
		return d.regions.ordered
	}
	codes := d.snap.Regions()
	out := make([]domain.Region, len(codes))
	for i, code := range codes {
		out[i] = domain.Region{Code: code, Name: code}
	}
	return out
}
