package adaptive

import "math"

// Alpha is the EMA weight of a new recommendation against the current
// trigger time.
const Alpha = 0.3

// BlendMinutes folds a newly recommended trigger time into the current one
// with an exponential moving average. Either side may be nil: a missing
// current time adopts the recommendation outright, and a missing
// recommendation keeps the current time untouched.
func BlendMinutes(current, proposed *int) *int {
	if current == nil {
		return proposed
	}
	if proposed == nil {
		return current
	}
	blended := int(math.Round(Alpha*float64(*proposed) + (1-Alpha)*float64(*current)))
	return &blended
}
