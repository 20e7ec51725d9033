package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestQuantileInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"minimum", 0, 1},
		{"first quartile", 0.25, 1.75},
		{"median", 0.5, 2.5},
		{"third quartile", 0.75, 3.25},
		{"maximum", 1, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Quantile(values, tc.q); !almostEqual(got, tc.want) {
				t.Fatalf("Quantile(%v, %f) = %f, want %f", values, tc.q, got, tc.want)
			}
		})
	}
}

func TestQuantileEmpty(t *testing.T) {
	if got := Quantile(nil, 0.5); got != 0 {
		t.Fatalf("Quantile(nil) = %f, want 0", got)
	}
}

func TestOutlierBounds(t *testing.T) {
	values := []float64{-80, -82, -81, -79, -10, -83}
	lower, upper := OutlierBounds(values)

	if !almostEqual(lower, -85.5) || !almostEqual(upper, -75.5) {
		t.Fatalf("bounds = [%f, %f], want [-85.5, -75.5]", lower, upper)
	}
	if -10 >= lower && -10 <= upper {
		t.Fatal("outlier -10 falls inside the bounds")
	}
}
