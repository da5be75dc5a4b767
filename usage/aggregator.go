package usage

import (
	"fmt"
	"math"
)

// dayKeyLen is the number of leading timestamp characters that identify the day
// (YYMMDD in the meter's YYMMDDhhmmssX timestamps).
const dayKeyLen = 6

// Aggregator maintains the net energy used since the last day boundary, derived from
// the meter's cumulative tariff registers.
//
// The day total is the accumulated first difference of (delivered - returned) between
// consecutive readings. The previous register sums are kept as a baseline, which is
// NaN until the first reading has been observed: the first update after construction
// only establishes the baseline, so a process restart cannot produce a spurious huge
// delta against whatever the registers happen to read.
//
// State is held in memory only and is lost on power loss.
type Aggregator struct {
	dayKey            string
	dayTotal          float64
	baselineDelivered float64
	baselineReturned  float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		baselineDelivered: math.NaN(),
		baselineReturned:  math.NaN(),
	}
}

// Update feeds one reading's cumulative tariff registers into the aggregator and
// returns the day total after the reading has been applied.
//
// When the reading's day key (the first 6 characters of `timestamp`) differs from the
// last one seen - including on the very first call - the day total is reset to zero
// before the delta is applied. The baselines are refreshed on every update, whether or
// not a delta was applied.
func (a *Aggregator) Update(timestamp string, delivered1, delivered2, returned1, returned2 float64) (float64, error) {
	if len(timestamp) < dayKeyLen {
		return a.dayTotal, fmt.Errorf("timestamp %q is shorter than %d characters", timestamp, dayKeyLen)
	}

	dayKey := timestamp[:dayKeyLen]
	if dayKey != a.dayKey {
		a.dayKey = dayKey
		a.dayTotal = 0
	}

	deliveredSum := delivered1 + delivered2
	returnedSum := returned1 + returned2

	if !math.IsNaN(a.baselineDelivered) {
		a.dayTotal += (deliveredSum - a.baselineDelivered) - (returnedSum - a.baselineReturned)
	}

	a.baselineDelivered = deliveredSum
	a.baselineReturned = returnedSum

	return a.dayTotal, nil
}

// DayTotal returns the current day total without applying a reading.
func (a *Aggregator) DayTotal() float64 {
	return a.dayTotal
}
