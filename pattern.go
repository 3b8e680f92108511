package remind

import "time"

// Recurrence is a lowered, concrete recurring schedule: a non-empty ordered
// list of date patterns, an ordered (possibly empty) list of time patterns,
// and the timezone their local wall-clock values are interpreted in.
type Recurrence struct {
	DatePatterns []DatePattern
	TimePatterns []TimePattern
	Timezone     Tz
	exhausted    bool
}

// IsDone reports whether the most recent call to Next found no further
// instant to produce: the date range or divisor has been fully walked. A
// Recurrence that has never had Next called is never done.
func (r *Recurrence) IsDone() bool { return r.exhausted }

// Countdown is a one-shot "remind me in X" duration. It fires at most once:
// the first call to Next flips used and reports the target instant (or
// false if that instant falls in a DST gap), every call after reports done.
type Countdown struct {
	Duration Interval
	Timezone Tz
	used     bool
}

// IsDone reports whether this Countdown has already fired.
func (c *Countdown) IsDone() bool { return c.used }

// Next reports the countdown's single firing instant, advancing cur (the
// current instant, as naive UTC) by Duration in the countdown's local
// timezone. It returns false once the countdown has already fired, or if the
// resulting wall-clock names no legal instant (a DST gap).
func (c *Countdown) Next(cur time.Time) (time.Time, bool) {
	if c.used {
		return time.Time{}, false
	}
	c.used = true
	local := c.Timezone.toLocal(cur)
	nextLocal := addInterval(local, c.Duration)
	return c.Timezone.localToUTC(nextLocal)
}

// Pattern is either a Recurrence or a Countdown: the two shapes a lowered
// reminder can take.
type Pattern struct {
	recurrence *Recurrence
	countdown  *Countdown
}

// RecurrencePattern wraps a Recurrence as a Pattern.
func RecurrencePattern(r *Recurrence) Pattern { return Pattern{recurrence: r} }

// CountdownPattern wraps a Countdown as a Pattern.
func CountdownPattern(c *Countdown) Pattern { return Pattern{countdown: c} }

// IsDone reports whether this pattern cannot produce further instants: a
// terminal Countdown, or a Recurrence whose most recent Next call found its
// range or divisor fully walked.
func (p Pattern) IsDone() bool {
	switch {
	case p.recurrence != nil:
		return p.recurrence.IsDone()
	case p.countdown != nil:
		return p.countdown.IsDone()
	default:
		return false
	}
}

// Next computes the pattern's next firing instant after cur (naive UTC),
// dispatching to the underlying Recurrence or Countdown.
func (p Pattern) Next(cur time.Time) (time.Time, bool) {
	switch {
	case p.recurrence != nil:
		return p.recurrence.Next(cur)
	case p.countdown != nil:
		return p.countdown.Next(cur)
	default:
		return time.Time{}, false
	}
}
