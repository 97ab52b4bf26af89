package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		in    *float64
		tier  Tier
		label string
	}{
		{"unknown when absent", nil, TierUnknown, "Confidence Unknown"},
		{"perfect", ptr(1), TierHigh, "High Confidence"},
		{"high boundary is inclusive", ptr(0.9), TierHigh, "High Confidence"},
		{"just below high", ptr(0.8999999), TierMedium, "Needs Review"},
		{"medium boundary is inclusive", ptr(0.7), TierMedium, "Needs Review"},
		{"just below medium", ptr(0.6999999), TierLow, "Low Confidence"},
		{"zero", ptr(0), TierLow, "Low Confidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			assert.Equal(t, tt.tier, got.Tier)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestClassify_ExactlyOneTierAcrossRange(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		v := float64(i) / 1000
		got := ClassifyValue(v)

		var want Tier
		switch {
		case v >= 0.9:
			want = TierHigh
		case v >= 0.7:
			want = TierMedium
		default:
			want = TierLow
		}
		assert.Equal(t, want, got.Tier, "confidence %v", v)
	}
}

func TestClassify_Advisory(t *testing.T) {
	assert.Equal(t, ManualVerificationAdvisory, Classify(ptr(0.3)).Advisory)
	assert.Empty(t, Classify(ptr(0.75)).Advisory)
	assert.Empty(t, Classify(ptr(0.95)).Advisory)
	assert.Empty(t, Classify(nil).Advisory)

	assert.True(t, NeedsManualVerification(ptr(0.5)))
	assert.False(t, NeedsManualVerification(nil))
}

func TestClassify_ColorRoles(t *testing.T) {
	assert.Equal(t, "success", Classify(ptr(0.95)).ColorRole)
	assert.Equal(t, "warning", Classify(ptr(0.8)).ColorRole)
	assert.Equal(t, "danger", Classify(ptr(0.1)).ColorRole)
	assert.Equal(t, "muted", Classify(nil).ColorRole)
	assert.Equal(t, Classify(nil), For(Tier("bogus")))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "95%", FormatPercent(ptr(0.95)))
	assert.Equal(t, "70%", FormatPercent(ptr(0.7)))
	assert.Equal(t, "", FormatPercent(nil))
}
