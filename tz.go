package remind

import "time"

// Tz wraps an IANA location and resolves local wall-clock times to UTC
// using "earliest legal instant" semantics: on a DST fall-back overlap it
// picks the earlier of the two UTC instants; on a DST spring-forward gap,
// where no legal instant exists, it reports that to the caller instead of
// guessing.
type Tz struct {
	loc *time.Location
}

// NewTz wraps a *time.Location, which is expected to come from an
// IANA-backed registry (time.LoadLocation or equivalent).
func NewTz(loc *time.Location) Tz {
	if loc == nil {
		loc = time.UTC
	}
	return Tz{loc: loc}
}

// Name returns the IANA zone identifier, e.g. "Europe/Moscow".
func (tz Tz) Name() string {
	return tz.loc.String()
}

// toLocal converts a naive (UTC-tagged, but really zone-less) instant into
// the wall-clock time an observer in tz's zone would read, itself returned
// naive (tagged UTC) so it can go on being compared and added to with plain
// time.Time arithmetic. The inverse of localToUTC.
func (tz Tz) toLocal(naiveUTC time.Time) time.Time {
	inZone := naiveUTC.In(tz.loc)
	y, m, d := inZone.Date()
	h, mi, s := inZone.Clock()
	return time.Date(y, m, d, h, mi, s, 0, time.UTC)
}

// localToUTC maps a naive local wall-clock value to a UTC instant, or
// reports false if the wall clock names no legal instant (a DST
// spring-forward gap).
//
// time.Date alone always resolves to exactly one instant and never reports
// ambiguity or non-existence. To recover both, this probes the UTC offset
// observed at the wall clock itself and two hours to either side (wide
// enough to straddle any real-world DST jump), converts the wall clock to
// UTC under each distinct offset found, and keeps only the candidates that
// round-trip back to the same wall clock. Zero surviving candidates means a
// gap; more than one means an overlap, and the earliest one wins.
func (tz Tz) localToUTC(local time.Time) (time.Time, bool) {
	y, m, d := local.Date()
	h, mi, s := local.Clock()
	base := time.Date(y, m, d, h, mi, s, 0, time.UTC)
	naive := time.Date(y, m, d, h, mi, s, 0, tz.loc)

	seen := make(map[int]bool)
	var offsets []int
	for _, probe := range []time.Time{naive.Add(-2 * time.Hour), naive, naive.Add(2 * time.Hour)} {
		_, off := probe.Zone()
		if !seen[off] {
			seen[off] = true
			offsets = append(offsets, off)
		}
	}

	var earliest time.Time
	found := false
	for _, off := range offsets {
		candidate := base.Add(-time.Duration(off) * time.Second)
		if roundTripsTo(candidate, tz, local) && (!found || candidate.Before(earliest)) {
			earliest = candidate
			found = true
		}
	}
	return earliest, found
}

// roundTripsTo reports whether converting candidate (a UTC instant) into
// tz's local wall clock reproduces local exactly.
func roundTripsTo(candidate time.Time, tz Tz, local time.Time) bool {
	got := candidate.In(tz.loc)
	gy, gm, gd := got.Date()
	gh, gmi, gs := got.Clock()
	ly, lm, ld := local.Date()
	lh, lmi, ls := local.Clock()
	return gy == ly && gm == lm && gd == ld && gh == lh && gmi == lmi && gs == ls
}

// Now is injectable so tests can control "the current instant" exactly as
// spec §6 requires.
type Now func() time.Time

// SystemNow returns the real wall-clock UTC time.
func SystemNow() time.Time {
	return time.Now().UTC()
}
