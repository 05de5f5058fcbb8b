package domain

import "time"

// Thresholds holds the TTR alerting cutoffs, in hours unless noted.
type Thresholds struct {
	WarningHours         float64 `json:"warningHours"`
	CriticalHours        float64 `json:"criticalHours"`
	DueSoonHours         float64 `json:"dueSoonHours"`
	NoUpdateAlertMinutes int     `json:"noUpdateAlertMinutes"`
}

// DefaultTTRTargetHours applies when a category has no configured target.
const DefaultTTRTargetHours = 24

// Settings is the process-wide tunable configuration. Each section carries
// its own last-updated timestamp so the default < cached < remote precedence
// is auditable rather than silent last-writer-wins.
type Settings struct {
	Thresholds          Thresholds         `json:"thresholds"`
	CategoryTargetHours map[string]float64 `json:"categoryTargetHours"`

	ThresholdsUpdatedAt time.Time `json:"thresholdsUpdatedAt"`
	CategoriesUpdatedAt time.Time `json:"categoriesUpdatedAt"`
}

// DefaultSettings returns the compiled-in baseline.
func DefaultSettings() Settings {
	return Settings{
		Thresholds: Thresholds{
			WarningHours:         4,
			CriticalHours:        1,
			DueSoonHours:         6,
			NoUpdateAlertMinutes: 60,
		},
		CategoryTargetHours: map[string]float64{
			"MAJOR":  8,
			"MEDIUM": 12,
			"MINOR":  24,
		},
	}
}

// TargetHoursFor resolves the TTR target for a category, falling back to
// DefaultTTRTargetHours for unknown categories.
func (s Settings) TargetHoursFor(category string) float64 {
	if hours, ok := s.CategoryTargetHours[category]; ok {
		return hours
	}
	return DefaultTTRTargetHours
}

// MergeFrom overlays the sections of other that are newer than the
// receiver's, returning the merged settings. This is the single precedence
// rule for default, cached and remote tiers.
func (s Settings) MergeFrom(other Settings) Settings {
	merged := s
	if other.ThresholdsUpdatedAt.After(s.ThresholdsUpdatedAt) {
		merged.Thresholds = other.Thresholds
		merged.ThresholdsUpdatedAt = other.ThresholdsUpdatedAt
	}
	if other.CategoriesUpdatedAt.After(s.CategoriesUpdatedAt) {
		merged.CategoryTargetHours = other.CategoryTargetHours
		merged.CategoriesUpdatedAt = other.CategoriesUpdatedAt
	}
	return merged
}

// DropdownSet is a named vocabulary backing a form dropdown.
type DropdownSet struct {
	Name      string    `json:"name"`
	Options   []string  `json:"options"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Dropdown set names stored in the options table.
const (
	DropdownProviders      = "providers"
	DropdownCategories     = "categories"
	DropdownDistanceRanges = "distance_ranges"
	DropdownTeams          = "teams"
)
