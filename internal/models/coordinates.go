package models

// CoordinateState classifies a latitude/longitude pair.
//
// (0, 0) is the "not yet geocoded" sentinel carried through every dataset file. A real site at
// exactly 0N 0E cannot be told apart from it; the datasets only cover US retail sites, so that is
// accepted.
type CoordinateState int

const (
	// Unresolved means both fields hold the sentinel zero.
	Unresolved CoordinateState = iota
	// Resolved means both fields are non-zero.
	Resolved
	// Partial means exactly one field is zero. No stage produces this; it signals a corrupted
	// dataset and is always reported.
	Partial
)

func (s CoordinateState) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Sentinel is the unresolved coordinate pair.
var Sentinel = Coordinates{}

// State reports whether the pair is resolved, unresolved or partially resolved.
func (c Coordinates) State() CoordinateState {
	latZero := c.Latitude == 0
	lonZero := c.Longitude == 0
	switch {
	case latZero && lonZero:
		return Unresolved
	case latZero || lonZero:
		return Partial
	default:
		return Resolved
	}
}

// IsResolved is shorthand for State() == Resolved.
func (c Coordinates) IsResolved() bool {
	return c.State() == Resolved
}
