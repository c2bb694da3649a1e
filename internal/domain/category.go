package domain

// Tier is a discrete suitability level.
type Tier string

// Tiers, worst first.
const (
	TierUnsuitable Tier = "unsuitable"
	TierPoor       Tier = "poor"
	TierFair       Tier = "fair"
	TierGood       Tier = "good"
	TierExcellent  Tier = "excellent"
)

// Category is the classification of a score: a tier, its display label, and
// the reference fill color used by the map renderer.
type Category struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var (
	categoryUnsuitable = Category{Tier: TierUnsuitable, Label: "Unsuitable", Color: "#d73027"}
	categoryPoor       = Category{Tier: TierPoor, Label: "Poor", Color: "#fc8d59"}
	categoryFair       = Category{Tier: TierFair, Label: "Fair", Color: "#fee08b"}
	categoryGood       = Category{Tier: TierGood, Label: "Good", Color: "#91cf60"}
	categoryExcellent  = Category{Tier: TierExcellent, Label: "Excellent", Color: "#1a9850"}
)

// Classify maps a score to its category. Thresholds are checked in order and
// the first match wins; values below 0 or above 100 fall into the end tiers.
func Classify(score int) Category {
	switch {
	case score <= 0:
		return categoryUnsuitable
	case score < 30:
		return categoryPoor
	case score < 60:
		return categoryFair
	case score < 80:
		return categoryGood
	default:
		return categoryExcellent
	}
}

// Legend returns every category from worst to best.
func Legend() []Category {
	return []Category{categoryUnsuitable, categoryPoor, categoryFair, categoryGood, categoryExcellent}
}
