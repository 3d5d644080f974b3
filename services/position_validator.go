package services

import "github.com/amirrezam75/terrahunt/entities"

// PositionValidator is the single anti-cheat heuristic the server
// applies to client-reported movement: a displacement larger than the
// configured threshold is not physically plausible between two updates
// and is flagged untrusted. Stateless and deterministic.
type PositionValidator struct {
	// Threshold is the process-wide maximum plausible per-update
	// displacement, in meters.
	Threshold float64
}

// Accept reports whether the move from current to reported is within
// the plausibility bound (strictly less than the threshold).
func (validator PositionValidator) Accept(current, reported entities.Cartesian3) bool {
	return entities.Distance(current, reported) < validator.Threshold
}
