package remind

import (
	"time"

	"github.com/remind-cal/remind/grammar"
)

// RecurrenceFromWithTz lowers a parsed Recurrence into a concrete one,
// resolving every hole against now (interpreted in tz) and threading a
// running lower bound through the pattern list so later patterns never fire
// before earlier ones.
//
// now is the instant lowering happens at, naive UTC (see SystemNow); tests
// pin it to get deterministic results.
func RecurrenceFromWithTz(gr grammar.Recurrence, tz Tz, now time.Time) (*Recurrence, error) {
	if len(gr.DatePatterns) == 0 {
		return nil, ErrEmptyRecurrence
	}
	lowerBound := tz.toLocal(now)

	firstTime, err := firstTimeOfDay(gr.TimePatterns, lowerBound)
	if err != nil {
		return nil, err
	}

	firstHoleyDate := firstHoleyDateOf(gr.DatePatterns[0])
	hasDivisor := gr.DatePatterns[0].Range != nil
	hasTimeDivisor := false
	for _, tp := range gr.TimePatterns {
		if tp.Range != nil {
			hasTimeDivisor = true
			break
		}
	}

	initDate := fillDateHoles(holeyDateFromGrammar(firstHoleyDate), dateFromTime(lowerBound))
	initTime := initDate.withTime(firstTime)

	if initTime.Before(lowerBound) && !hasDivisor && !hasTimeDivisor {
		switch {
		case firstHoleyDate.Day == nil:
			initTime = initTime.AddDate(0, 0, 1)
		case firstHoleyDate.Month == nil:
			initTime = initTime.AddDate(0, 0, daysInMonth(initTime.Month(), initTime.Year()))
		case firstHoleyDate.Year == nil:
			initTime = initTime.AddDate(0, 0, daysInYear(initTime.Year()))
		default:
			// Year, month, and day are all pinned: there's no unspecified
			// unit left to bump by, so a past instant has no sensible
			// advancement.
			return nil, ErrUnfillableDate
		}
	}

	curLowerBound := dateFromTime(initTime)
	datePatterns := make([]DatePattern, 0, len(gr.DatePatterns))
	for _, gp := range gr.DatePatterns {
		switch {
		case gp.Point != nil:
			date := fillDateHoles(holeyDateFromGrammar(*gp.Point), curLowerBound)
			datePatterns = append(datePatterns, PointDate(*date))
			curLowerBound = *date

		case gp.Range != nil:
			dateFrom := fillDateHoles(holeyDateFromGrammar(gp.Range.From), curLowerBound)
			curLowerBound = *dateFrom
			var dateUntil *Date
			if gp.Range.Until != nil {
				u := fillDateHoles(holeyDateFromGrammar(*gp.Range.Until), curLowerBound)
				dateUntil = u
				curLowerBound = *u
			}
			if dateUntil != nil && dateFrom.after(*dateUntil) {
				return nil, ErrIllFormedRange
			}
			divisor, err := dateDivisorFromGrammar(gp.Range.DateDivisor)
			if err != nil {
				return nil, err
			}
			datePatterns = append(datePatterns, RangeDate(DateRange{
				From:        *dateFrom,
				Until:       dateUntil,
				DateDivisor: divisor,
			}))
		}
	}

	timePatterns := make([]TimePattern, 0, len(gr.TimePatterns))
	for _, gp := range gr.TimePatterns {
		tp, err := timePatternFromGrammar(gp)
		if err != nil {
			return nil, err
		}
		timePatterns = append(timePatterns, tp)
	}

	return &Recurrence{
		DatePatterns: datePatterns,
		TimePatterns: timePatterns,
		Timezone:     tz,
	}, nil
}

// CountdownFromWithTz lowers a parsed Countdown. There is no hole-filling or
// bound to establish: the duration is taken as given, relative to whatever
// instant Next is first called with.
func CountdownFromWithTz(gc grammar.Countdown, tz Tz) *Countdown {
	return &Countdown{
		Duration: intervalFromGrammar(gc.Duration),
		Timezone: tz,
	}
}

// PatternFromWithTz lowers a parsed ReminderPattern into its concrete
// counterpart.
func PatternFromWithTz(gp grammar.ReminderPattern, tz Tz, now time.Time) (Pattern, error) {
	switch {
	case gp.Recurrence != nil:
		r, err := RecurrenceFromWithTz(*gp.Recurrence, tz, now)
		if err != nil {
			return Pattern{}, err
		}
		return RecurrencePattern(r), nil
	case gp.Countdown != nil:
		return CountdownPattern(CountdownFromWithTz(*gp.Countdown, tz)), nil
	default:
		return Pattern{}, ErrEmptyRecurrence
	}
}

func firstHoleyDateOf(dp grammar.DatePattern) grammar.HoleyDate {
	if dp.Point != nil {
		return *dp.Point
	}
	return dp.Range.From
}

// firstTimeOfDay picks the time-of-day lowering starts its search from: the
// first time pattern's point value or range start, defaulting to midnight
// for an open-ended range and to lowerBound's own clock when there is no
// time pattern at all.
func firstTimeOfDay(patterns []grammar.TimePattern, lowerBound time.Time) (Time, error) {
	if len(patterns) == 0 {
		h, m, s := lowerBound.Clock()
		return Time{Hour: h, Minute: m, Second: s}, nil
	}
	switch p := patterns[0]; {
	case p.Point != nil:
		t := timeFromGrammar(*p.Point)
		if !t.valid() {
			return Time{}, ErrInvalidTime
		}
		return t, nil
	case p.Range != nil:
		if p.Range.From == nil {
			return midnight(), nil
		}
		t := timeFromGrammar(*p.Range.From)
		if !t.valid() {
			return Time{}, ErrInvalidTime
		}
		return t, nil
	default:
		return Time{}, ErrInvalidTime
	}
}

func timeFromGrammar(t grammar.Time) Time {
	return Time{Hour: t.Hour, Minute: t.Minute, Second: t.Second}
}

func holeyDateFromGrammar(h grammar.HoleyDate) HoleyDate {
	var month *time.Month
	if h.Month != nil {
		m := time.Month(*h.Month)
		month = &m
	}
	return HoleyDate{Year: h.Year, Month: month, Day: h.Day}
}

// weekdaysFromGrammar relies on grammar.Weekdays and Weekdays sharing the
// same bit layout (Monday = bit 0 .. Sunday = bit 6).
func weekdaysFromGrammar(w grammar.Weekdays) Weekdays {
	return Weekdays(w)
}

func dateIntervalFromGrammar(iv grammar.DateInterval) DateInterval {
	return DateInterval{Years: iv.Years, Months: iv.Months, Weeks: iv.Weeks, Days: iv.Days}
}

func timeIntervalFromGrammar(iv grammar.TimeInterval) TimeInterval {
	return TimeInterval{Hours: iv.Hours, Minutes: iv.Minutes, Seconds: iv.Seconds}
}

func intervalFromGrammar(iv grammar.Interval) Interval {
	return Interval{
		Years:   iv.Years,
		Months:  iv.Months,
		Weeks:   iv.Weeks,
		Days:    iv.Days,
		Hours:   iv.Hours,
		Minutes: iv.Minutes,
		Seconds: iv.Seconds,
	}
}

func dateDivisorFromGrammar(d grammar.DateDivisor) (DateDivisor, error) {
	switch {
	case d.Weekdays != nil:
		weekdays := weekdaysFromGrammar(*d.Weekdays)
		if weekdays.Empty() {
			return DateDivisor{}, ErrIllFormedRange
		}
		return WeekdaysDivisor(weekdays), nil
	case d.Interval != nil:
		return IntervalDivisor(dateIntervalFromGrammar(*d.Interval)), nil
	default:
		return DateDivisor{}, ErrIllFormedRange
	}
}

func timePatternFromGrammar(tp grammar.TimePattern) (TimePattern, error) {
	switch {
	case tp.Point != nil:
		t := timeFromGrammar(*tp.Point)
		if !t.valid() {
			return TimePattern{}, ErrInvalidTime
		}
		return PointTime(t), nil
	case tp.Range != nil:
		r := tp.Range
		var from, until *Time
		if r.From != nil {
			t := timeFromGrammar(*r.From)
			if !t.valid() {
				return TimePattern{}, ErrInvalidTime
			}
			from = &t
		}
		if r.Until != nil {
			t := timeFromGrammar(*r.Until)
			if !t.valid() {
				return TimePattern{}, ErrInvalidTime
			}
			until = &t
		}
		if from != nil && until != nil && from.after(*until) {
			return TimePattern{}, ErrIllFormedRange
		}
		interval := timeIntervalFromGrammar(r.Interval)
		if interval.Duration() <= 0 {
			return TimePattern{}, ErrIllFormedRange
		}
		return RangeTime(TimeRange{From: from, Until: until, Interval: interval}), nil
	default:
		return TimePattern{}, ErrIllFormedRange
	}
}
