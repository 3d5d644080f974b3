package entities

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Cartesian3
		want float64
	}{
		{"same point", Cartesian3{X: 1, Y: 2, Z: 3}, Cartesian3{X: 1, Y: 2, Z: 3}, 0},
		{"unit x", Cartesian3{}, Cartesian3{X: 1}, 1},
		{"pythagorean", Cartesian3{}, Cartesian3{X: 3, Y: 4}, 5},
		{"full 3d", Cartesian3{X: 1, Y: 1, Z: 1}, Cartesian3{X: 3, Y: 4, Z: 7}, 7},
		{"negative coordinates", Cartesian3{X: -3}, Cartesian3{X: 3}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Distance(%+v, %+v) = %f; want %f", tt.a, tt.b, got, tt.want)
			}

			if reverse := Distance(tt.b, tt.a); reverse != got {
				t.Fatalf("distance is not symmetric: %f vs %f", got, reverse)
			}
		})
	}
}
