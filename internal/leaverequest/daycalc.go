package leaverequest

import (
	"math"
	"time"
)

// Days returns the chargeable day count for a date range.
//
// A half-day request always charges 0.5 regardless of the range; otherwise the
// count is calendar-day inclusive, so start == end charges a full day.
// Weekends and holidays are NOT excluded.
// TODO: subtract company holidays and weekends once the holiday calendar
// module exists.
func Days(start, end time.Time, isHalfDay bool) float64 {
	if isHalfDay {
		return 0.5
	}
	return math.Ceil(end.Sub(start).Hours()/24) + 1
}
