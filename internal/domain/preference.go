package domain

import "fmt"

// PreferenceKey names a temperature preference band.
type PreferenceKey string

// Preference keys, coldest first.
const (
	PreferenceCold  PreferenceKey = "cold"
	PreferenceCool  PreferenceKey = "cool"
	PreferenceIdeal PreferenceKey = "ideal"
	PreferenceWarm  PreferenceKey = "warm"
	PreferenceHot   PreferenceKey = "hot"
)

// DefaultPreference is the band selected at session start.
const DefaultPreference = PreferenceIdeal

// PreferenceBand is a named inclusive temperature range in °F.
type PreferenceBand struct {
	Key         PreferenceKey `json:"key"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Min         int           `json:"min"`
	Max         int           `json:"max"`
}

// Contains reports whether t lies in [Min, Max]. Both ends are inclusive.
func (b PreferenceBand) Contains(t int) bool {
	return t >= b.Min && t <= b.Max
}

// catalog is fixed at process start and never mutated. Adjacent bands share
// their boundary degree.
var catalog = [...]PreferenceBand{
	{Key: PreferenceCold, Label: "Cold", Description: "30-50°F", Min: 30, Max: 50},
	{Key: PreferenceCool, Label: "Cool", Description: "50-65°F", Min: 50, Max: 65},
	{Key: PreferenceIdeal, Label: "Ideal", Description: "65-75°F", Min: 65, Max: 75},
	{Key: PreferenceWarm, Label: "Warm", Description: "75-85°F", Min: 75, Max: 85},
	{Key: PreferenceHot, Label: "Hot", Description: "85-100°F", Min: 85, Max: 100},
}

// Preferences returns the catalog in display order.
func Preferences() []PreferenceBand {
	out := make([]PreferenceBand, len(catalog))
	copy(out, catalog[:])
	return out
}

// LookupPreference returns the band for key, or ErrUnknownPreference.
func LookupPreference(key PreferenceKey) (PreferenceBand, error) {
	for _, b := range catalog {
		if b.Key == key {
			return b, nil
		}
	}
	return PreferenceBand{}, fmt.Errorf("%w: %q", ErrUnknownPreference, key)
}

// MustPreference is LookupPreference for keys known at compile time.
func MustPreference(key PreferenceKey) PreferenceBand {
	b, err := LookupPreference(key)
	if err != nil {
		panic(err)
	}
	return b
}
