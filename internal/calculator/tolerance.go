package calculator

import "math"

// Tolerance is the absolute threshold used for every "is this effectively zero" and
// "are these amounts equal" decision. Existing data was produced with this exact value.
const Tolerance = 0.01

// Status classifies a participant's net position.
type Status string

const (
	StatusOwes     Status = "owes"
	StatusGetsBack Status = "gets_back"
	StatusSettled  Status = "settled"
)

// StatusOf classifies a net balance using Tolerance.
func StatusOf(net float64) Status {
	switch {
	case net < -Tolerance:
		return StatusOwes
	case net > Tolerance:
		return StatusGetsBack
	default:
		return StatusSettled
	}
}

// AmountsEqual reports whether a and b differ by less than Tolerance.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}
