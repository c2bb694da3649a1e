package domain

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
}

// IsZero reports whether no coordinates are set.
func (g Geo) IsZero() bool {
	return g.Lat == 0 && g.Lon == 0
}

// Region is an administrative area (e.g. a US state) identified by a stable code.
// Boundary geometry belongs to the renderer and is never loaded here.
type Region struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Centroid Geo    `json:"centroid,omitempty"`
}
