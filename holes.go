package remind

import "time"

// HoleyDate is a partially specified date: each field is either present or
// absent (nil).
type HoleyDate struct {
	Year  *int
	Month *time.Month
	Day   *int
}

// fillDateHoles turns holeyDate into a concrete date, never nil. Missing
// fields are substituted from lowerBound first and the day is clamped to
// the month's length; if the result still falls before lowerBound, the
// increment ladder below picks the smallest unspecified unit (day, then
// month, then year) to advance by, which is what makes "the 31st" mean
// "the next 31st" and "May 31" mean "the next May 31st" instead of both
// collapsing to a naive +1-day search. The advanced date can leave a
// specified field behind (a fixed year with no day can move into the next
// year), and a fully specified date is returned as-is even when it falls
// before lowerBound.
func fillDateHoles(holeyDate HoleyDate, lowerBound Date) *Date {
	year := lowerBound.Year
	if holeyDate.Year != nil {
		year = *holeyDate.Year
	}
	month := lowerBound.Month
	if holeyDate.Month != nil {
		month = *holeyDate.Month
	}
	day := lowerBound.Day
	if holeyDate.Day != nil {
		day = *holeyDate.Day
	}
	if max := daysInMonth(month, year); day > max {
		day = max
	}

	candidate := Date{Year: year, Month: month, Day: day}
	if !candidate.before(lowerBound) {
		return &candidate
	}

	var incrementsDays []int
	switch {
	case holeyDate.Day == nil:
		incrementsDays = []int{
			1,
			daysInMonth(candidate.Month, candidate.Year),
			daysInYear(candidate.Year),
		}
	case holeyDate.Month == nil:
		incrementsDays = []int{
			daysInMonth(candidate.Month, candidate.Year),
			daysInYear(candidate.Year),
		}
	case holeyDate.Year == nil:
		incrementsDays = []int{daysInYear(candidate.Year)}
	default:
		// Fully specified: the literal date stands even if it is before
		// lowerBound. The caller decides whether that is acceptable.
		return &candidate
	}

	for _, inc := range incrementsDays {
		advanced := candidate.addDays(inc)
		if advanced.after(lowerBound) {
			return &advanced
		}
	}
	return &candidate
}
