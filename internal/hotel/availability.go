package hotel

import "time"

// Overlaps is the half-open interval overlap test: two stays on the same
// room conflict iff each starts before the other ends. A booking checking
// out the morning another checks in does not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidInterval reports whether a stay has at least one night.
func ValidInterval(checkIn, checkOut time.Time) bool {
	return checkIn.Before(checkOut)
}
