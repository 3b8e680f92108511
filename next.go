package remind

import "time"

// Next computes the recurrence's next firing instant strictly after cur
// (naive UTC). It reports false if no date pattern has any date left to
// give, or if there are no time patterns at all (a recurrence needs at
// least one to drive any firing beyond its initial instant).
//
// The search proceeds in three stages, each one only consulted if the
// previous finds nothing: fire on the earliest candidate date when it lies
// after today, fire later today at a later time, or fire on the next date
// the patterns allow.
//
// The ok it returns is also cached on r (see IsDone): a false here means
// the range or divisor has nothing left to give from cur onward, which is
// what lets a caller like the poller tell "this recurrence is exhausted"
// apart from "lowering failed."
func (r *Recurrence) Next(cur time.Time) (time.Time, bool) {
	next, ok := r.findNext(cur)
	r.exhausted = !ok
	return next, ok
}

func (r *Recurrence) findNext(cur time.Time) (time.Time, bool) {
	curLocal := r.Timezone.toLocal(cur)
	curDate := dateFromTime(curLocal)
	curTime := Time{curLocal.Hour(), curLocal.Minute(), curLocal.Second()}

	firstDate, ok := r.earliestDate(curDate)
	if !ok {
		return time.Time{}, false
	}
	firstTime, ok := r.earliestTime()
	if !ok {
		return time.Time{}, false
	}

	if firstDate.after(curDate) {
		return r.Timezone.localToUTC(firstDate.withTime(firstTime))
	}

	if nextTime, ok := r.nextTimeToday(curTime); ok {
		return r.Timezone.localToUTC(curDate.withTime(nextTime))
	}

	if nextDate, ok := r.nextDateAfter(curDate); ok {
		return r.Timezone.localToUTC(nextDate.withTime(firstTime))
	}
	return time.Time{}, false
}

// earliestDate is the smallest candidate date across every date pattern:
// a range contributes its nearest date >= from, a point contributes its own
// date even when that precedes from. It is used both as the recurrence's
// initial-fire date and as the reference date for "did we already pass
// today" comparisons.
func (r *Recurrence) earliestDate(from Date) (Date, bool) {
	var best Date
	found := false
	for _, p := range r.DatePatterns {
		var candidate Date
		switch {
		case p.point != nil:
			candidate = *p.point
		case p.rng != nil:
			nearest := p.rng.getNearestDate(from)
			if nearest == nil {
				continue
			}
			candidate = *nearest
		default:
			continue
		}
		if !found || candidate.before(best) {
			best = candidate
			found = true
		}
	}
	return best, found
}

func (r *Recurrence) earliestTime() (Time, bool) {
	var best Time
	found := false
	for _, p := range r.TimePatterns {
		var candidate Time
		switch {
		case p.point != nil:
			candidate = *p.point
		case p.rng != nil:
			candidate = p.rng.from()
		default:
			continue
		}
		if !found || candidate.before(best) {
			best = candidate
			found = true
		}
	}
	return best, found
}

// nextTimeToday finds the smallest time strictly after curTime that some
// time pattern still allows today.
func (r *Recurrence) nextTimeToday(curTime Time) (Time, bool) {
	var best Time
	found := false
	for _, p := range r.TimePatterns {
		candidate, ok := p.nextToday(curTime)
		if !ok {
			continue
		}
		if !found || candidate.before(best) {
			best = candidate
			found = true
		}
	}
	return best, found
}

// nextToday reports the pattern's own next time strictly after curTime
// today, if it has one.
func (p TimePattern) nextToday(curTime Time) (Time, bool) {
	switch {
	case p.point != nil:
		if p.point.after(curTime) {
			return *p.point, true
		}
		return Time{}, false

	case p.rng != nil:
		r := p.rng
		if r.Until != nil && !r.Until.after(curTime) {
			return Time{}, false
		}
		from := r.from()
		if from.after(curTime) {
			return from, true
		}
		step := r.Interval.Duration()
		if step <= 0 {
			return Time{}, false
		}
		elapsed := curTime.asDuration() - from.asDuration()
		steps := elapsed/step + 1
		nextDur := from.asDuration() + steps*step
		next := timeFromDuration(nextDur)
		if !next.after(curTime) {
			return Time{}, false
		}
		if r.Until != nil && next.after(*r.Until) {
			return Time{}, false
		}
		return next, true
	}
	return Time{}, false
}

func timeFromDuration(d time.Duration) Time {
	total := int(d / time.Second)
	return Time{Hour: total / 3600, Minute: (total / 60) % 60, Second: total % 60}
}

// nextDateAfter finds the smallest date strictly after curDate that some
// date pattern still allows.
func (r *Recurrence) nextDateAfter(curDate Date) (Date, bool) {
	var best Date
	found := false
	for _, p := range r.DatePatterns {
		candidate, ok := p.nextAfter(curDate)
		if !ok {
			continue
		}
		if !found || candidate.before(best) {
			best = candidate
			found = true
		}
	}
	return best, found
}

func (p DatePattern) nextAfter(curDate Date) (Date, bool) {
	switch {
	case p.point != nil:
		if p.point.after(curDate) {
			return *p.point, true
		}
		return Date{}, false

	case p.rng != nil:
		r := p.rng
		if r.Until != nil && !r.Until.after(curDate) {
			return Date{}, false
		}
		if r.From.after(curDate) {
			return r.From, true
		}
		next := r.getNearestDate(curDate.addDays(1))
		if next == nil {
			return Date{}, false
		}
		if r.Until != nil && next.after(*r.Until) {
			return Date{}, false
		}
		return *next, true
	}
	return Date{}, false
}
