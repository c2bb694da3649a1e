package domain

import "fmt"

// SelectionState is the day and preference currently chosen by the user.
// Only explicit user actions mutate it; it holds no lock of its own, so the
// owner serializes writes.
type SelectionState struct {
	Day        int           `json:"day"`
	Preference PreferenceKey `json:"preference"`
}

// NewSelectionState returns the session-start defaults: today, ideal band.
func NewSelectionState() SelectionState {
	return SelectionState{Day: 0, Preference: DefaultPreference}
}

// SetDay selects a forecast day. Out-of-range indices fail with
// ErrInvalidIndex and leave the state unchanged.
func (s *SelectionState) SetDay(day int) error {
	if !ValidDay(day) {
		return fmt.Errorf("%w: %d (want 0-%d)", ErrInvalidIndex, day, DaysPerForecast-1)
	}
	s.Day = day
	return nil
}

// SetPreference selects a preference band. Keys outside the catalog fail with
// ErrUnknownPreference and leave the state unchanged.
func (s *SelectionState) SetPreference(key PreferenceKey) error {
	if _, err := LookupPreference(key); err != nil {
		return err
	}
	s.Preference = key
	return nil
}

// Band resolves the selected preference key. A zero-value state resolves to
// the default band.
func (s SelectionState) Band() PreferenceBand {
	b, err := LookupPreference(s.Preference)
	if err != nil {
		return MustPreference(DefaultPreference)
	}
	return b
}
