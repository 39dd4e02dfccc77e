package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestBlendMinutes(t *testing.T) {
	testCases := []struct {
		name     string
		current  *int
		proposed *int
		want     *int
	}{
		{"both nil", nil, nil, nil},
		{"adopts proposed when no current", nil, intPtr(480), intPtr(480)},
		{"keeps current when no proposal", intPtr(600), nil, intPtr(600)},
		// 600*0.7 + 480*0.3 = 564 -> 09:24.
		{"ema blend", intPtr(600), intPtr(480), intPtr(564)},
		{"identical times stay put", intPtr(450), intPtr(450), intPtr(450)},
		// 100*0.7 + 101*0.3 = 100.3 rounds down.
		{"rounding", intPtr(100), intPtr(101), intPtr(100)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BlendMinutes(tc.current, tc.proposed)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	testCases := []struct {
		name      string
		shifts    []float64
		wantAvg   float64
		wantTrend string
	}{
		{"no data", nil, 0, "stable"},
		{"small drift", []float64{-10, 5}, -2.5, "stable"},
		{"earlier", []float64{-30, -20}, -25, "earlier"},
		{"later", []float64{40, 20}, 30, "later"},
		{"exact threshold is stable", []float64{15}, 15, "stable"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			avg, trend := classifyTrend(tc.shifts)
			assert.InDelta(t, tc.wantAvg, avg, 1e-9)
			assert.Equal(t, tc.wantTrend, trend)
		})
	}
}
