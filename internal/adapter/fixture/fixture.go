// Package fixture reads and writes forecast datasets as JSON:
//
//	{"TX": [{"high_temperature": 91, "low_temperature": 74, "humidity": 62}, ...7 days], ...}
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/couchcryptid/suitability-map/internal/domain"
)

// DecodeRaw parses a fixture without checking day counts.
func DecodeRaw(r io.Reader) (map[string][]domain.ForecastDay, error) {
	var raw map[string][]domain.ForecastDay
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode forecast fixture: %w", err)
	}
	return raw, nil
}

// Decode parses a fixture into a ForecastSet. Every region must have exactly
// DaysPerForecast days.
func Decode(r io.Reader) (domain.ForecastSet, error) {
	raw, err := DecodeRaw(r)
	if err != nil {
		return nil, err
	}
	set := make(domain.ForecastSet, len(raw))
	for code, days := range raw {
		f, err := domain.ForecastFromDays(days)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", code, err)
		}
		set[code] = f
	}
	return set, nil
}

// Encode writes set as indented JSON with region codes in sorted order.
func Encode(w io.Writer, set domain.ForecastSet) error {
	raw := make(map[string][]domain.ForecastDay, len(set))
	for code, f := range set {
		raw[code] = slices.Clone(f[:])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("encode forecast fixture: %w", err)
	}
	return nil
}

// Source implements domain.ForecastSource from a fixture file. The file is
// re-read when its modification time changes, so a refresh picks up edits.
type Source struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	set     domain.ForecastSet
}

// NewSource creates a file-backed source. The file is read lazily.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Name identifies the source in logs and metrics.
func (s *Source) Name() string { return "fixture" }

// FetchForecast returns the region's forecast, or domain.ErrNoForecast when
// the fixture has no entry for it.
func (s *Source) FetchForecast(_ context.Context, region domain.Region) (domain.Forecast, error) {
	set, err := s.current()
	if err != nil {
		return domain.Forecast{}, err
	}
	f, ok := set[region.Code]
	if !ok {
		return domain.Forecast{}, fmt.Errorf("%w: %s", domain.ErrNoForecast, region.Code)
	}
	return f, nil
}

func (s *Source) current() (domain.ForecastSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat forecast fixture: %w", err)
	}
	if s.set != nil && info.ModTime().Equal(s.modTime) {
		return s.set, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open forecast fixture: %w", err)
	}
	defer f.Close()

	set, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.set = set
	s.modTime = info.ModTime()
	return set, nil
}
