package domain

// IdealTemperature is the global comfort optimum in °F. It does not move with
// the selected band.
const IdealTemperature = 70

const (
	maxScore        = 100
	pointsPerDegree = 2
)

// Score rates a day's forecast 0–100 for the given band. A nil day (no data)
// or a high temperature outside the band scores 0.
func Score(day *ForecastDay, band PreferenceBand) int {
	if day == nil || !band.Contains(day.HighTemperature) {
		return 0
	}
	s := maxScore - pointsPerDegree*absInt(day.HighTemperature-IdealTemperature)
	if s < 0 {
		return 0
	}
	return s
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
