package domain

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"
)

// Snapshot is an immutable, fully populated forecast dataset. Every read
// through one Snapshot sees the same generation.
type Snapshot struct {
	forecasts  ForecastSet
	codes      []string
	loadedAt   time.Time
	generation uint64
}

var emptySnapshot = &Snapshot{}

// Get returns one region's forecast for one day. The boolean is false when the
// region is unknown or the day is out of range.
func (s *Snapshot) Get(code string, day int) (ForecastDay, bool) {
	if !ValidDay(day) {
		return ForecastDay{}, false
	}
	f, ok := s.forecasts[code]
	if !ok {
		return ForecastDay{}, false
	}
	return f[day], true
}

// Forecast returns the full 7-day forecast for a region.
func (s *Snapshot) Forecast(code string) (Forecast, bool) {
	f, ok := s.forecasts[code]
	return f, ok
}

// Regions returns the region codes in the dataset, sorted.
func (s *Snapshot) Regions() []string {
	return slices.Clone(s.codes)
}

// LoadedAt returns when the dataset was published, or the zero time.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Generation identifies the dataset. It is 0 for the empty snapshot.
func (s *Snapshot) Generation() uint64 { return s.generation }

// ForecastStore holds the per-region forecast dataset. Readers never lock:
// the whole dataset is swapped in one atomic store, so a reader sees either
// the previous snapshot or the new one, never a partial set.
type ForecastStore struct {
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
}

// NewForecastStore creates an empty store. Get reports absent until the first
// Replace.
func NewForecastStore() *ForecastStore {
	return &ForecastStore{}
}

// Replace validates set and publishes it as the new dataset. On a validation
// error the previous dataset stays visible. The store keeps its own copy.
func (s *ForecastStore) Replace(set ForecastSet) error {
	_, err := s.Publish(set)
	return err
}

// Publish is Replace, returning the snapshot it made current.
func (s *ForecastStore) Publish(set ForecastSet) (*Snapshot, error) {
	forecasts := make(ForecastSet, len(set))
	codes := make([]string, 0, len(set))
	for code, f := range set {
		if code == "" {
			return nil, fmt.Errorf("replace forecasts: empty region code")
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("replace forecasts: region %s: %w", code, err)
		}
		forecasts[code] = f
		codes = append(codes, code)
	}
	slices.Sort(codes)

	snap := &Snapshot{
		forecasts:  forecasts,
		codes:      codes,
		loadedAt:   clock.Now(),
		generation: s.generation.Add(1),
	}
	s.current.Store(snap)
	return snap, nil
}

// Snapshot returns the current dataset. Before the first Replace it returns an
// empty snapshot with generation 0, never nil.
func (s *ForecastStore) Snapshot() *Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return emptySnapshot
}

// Get returns one region's forecast for one day. The boolean is false when the
// store is empty, the region is unknown, or the day is out of range.
func (s *ForecastStore) Get(code string, day int) (ForecastDay, bool) {
	return s.Snapshot().Get(code, day)
}

// Forecast returns the full 7-day forecast for a region.
func (s *ForecastStore) Forecast(code string) (Forecast, bool) {
	return s.Snapshot().Forecast(code)
}

// Regions returns the region codes in the current dataset, sorted.
func (s *ForecastStore) Regions() []string {
	return s.Snapshot().Regions()
}

// Loaded reports whether a dataset has been published.
func (s *ForecastStore) Loaded() bool {
	return s.current.Load() != nil
}

// LoadedAt returns when the current dataset was published, or the zero time.
func (s *ForecastStore) LoadedAt() time.Time {
	return s.Snapshot().LoadedAt()
}

// Generation identifies the current dataset. It is 0 before the first load
// and increases on every Replace.
func (s *ForecastStore) Generation() uint64 {
	return s.Snapshot().Generation()
}
