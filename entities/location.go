package entities

import "math"

// Cartesian3 is an earth-fixed 3-D coordinate in meters, matching the
// coordinate frame the client reports positions in.
type Cartesian3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Cartesian3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
