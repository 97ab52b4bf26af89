// Package confidence discretizes extraction confidence scores into review tiers.
// Badges, overlays, tooltips and CLI output all classify through this package so
// that a value never shows as verified in one place and as needing review in another.
package confidence

import (
	"fmt"
	"math"
)

// Tier is a discrete confidence band.
type Tier string

const (
	TierHigh    Tier = "high"
	TierMedium  Tier = "medium"
	TierLow     Tier = "low"
	TierUnknown Tier = "unknown"
)

// Inclusive lower bounds of the high and medium tiers.
const (
	HighThreshold   = 0.9
	MediumThreshold = 0.7
)

// ManualVerificationAdvisory is shown wherever a low-confidence value is presented.
const ManualVerificationAdvisory = "Low extraction confidence: verify this value manually against the source document."

// Classification is the presentation semantics of a tier.
type Classification struct {
	Tier      Tier   `json:"tier"`
	ColorRole string `json:"colorRole"`
	Color     string `json:"color"`
	Label     string `json:"label"`
	Advisory  string `json:"advisory,omitempty"`
}

var classes = map[Tier]Classification{
	TierHigh: {
		Tier:      TierHigh,
		ColorRole: "success",
		Color:     "#16a34a",
		Label:     "High Confidence",
	},
	TierMedium: {
		Tier:      TierMedium,
		ColorRole: "warning",
		Color:     "#d97706",
		Label:     "Needs Review",
	},
	TierLow: {
		Tier:      TierLow,
		ColorRole: "danger",
		Color:     "#dc2626",
		Label:     "Low Confidence",
		Advisory:  ManualVerificationAdvisory,
	},
	TierUnknown: {
		Tier:      TierUnknown,
		ColorRole: "muted",
		Color:     "#6b7280",
		Label:     "Confidence Unknown",
	},
}

// Classify maps an optional confidence score to its tier.
// Scores are compared directly against the thresholds; 0.9 is high and 0.7 is medium.
func Classify(c *float64) Classification {
	if c == nil || math.IsNaN(*c) {
		return classes[TierUnknown]
	}
	return ClassifyValue(*c)
}

// ClassifyValue classifies a known score.
func ClassifyValue(v float64) Classification {
	switch {
	case math.IsNaN(v):
		return classes[TierUnknown]
	case v >= HighThreshold:
		return classes[TierHigh]
	case v >= MediumThreshold:
		return classes[TierMedium]
	default:
		return classes[TierLow]
	}
}

// For returns the classification of a tier.
func For(t Tier) Classification {
	if c, ok := classes[t]; ok {
		return c
	}
	return classes[TierUnknown]
}

// Percent converts a score to a whole percentage for labels.
func Percent(v float64) int {
	return int(math.Round(v * 100))
}

// FormatPercent renders an optional score as "95%", or "" when unknown.
func FormatPercent(c *float64) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%d%%", Percent(*c))
}

// NeedsManualVerification reports whether a surface must show the advisory.
func NeedsManualVerification(c *float64) bool {
	return Classify(c).Tier == TierLow
}
