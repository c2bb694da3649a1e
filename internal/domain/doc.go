// Package domain models regional forecast data and the suitability engine
// that scores each region for an outdoor activity.
//
// # Forecast Data
//
// Every region carries exactly seven daily observations. Index 0 is today,
// index 6 is six days ahead; no calendar dates are stored, so the day index
// is the only lookup key. Temperatures are whole degrees Fahrenheit and
// humidity is a percentage:
//
//	{"high_temperature": 72, "low_temperature": 58, "humidity": 41}
//
// A low above the high is not rejected at load time. Consumers assume
// low <= high; cmd/validate reports fixtures that break it.
//
// # Preference Bands
//
// Users pick one of five named bands. Bounds are inclusive on both ends and
// adjacent bands share their boundary degree, so 65°F sits in both "cool"
// and "ideal". Each band is evaluated independently:
//
//	cold 30–50 | cool 50–65 | ideal 65–75 | warm 75–85 | hot 85–100
//
// # Scoring
//
// Scoring is gate-then-score. A high temperature outside the selected band
// scores 0. Inside the band the score falls off linearly from the global
// comfort optimum of 70°F, two points per degree, floored at 0:
//
//	score = max(0, 100 - 2*|high - 70|)
//
// The band decides eligibility only; the optimum does not move with the
// band. A missing region or day scores 0 and is not an error.
//
// # Classification
//
// Scores map to five ordered tiers, first match wins:
//
//	0 unsuitable | 1–29 poor | 30–59 fair | 60–79 good | 80–100 excellent
//
// Each tier carries a reference fill color for map rendering.
package domain
