package remind

// ErrorKind identifies which invariant lowering failed to establish. Compare
// with errors.Is against the package-level sentinels below.
type ErrorKind struct {
	msg string
}

func (e *ErrorKind) Error() string { return e.msg }

var (
	// ErrInvalidTime: a time-of-day point has an out-of-range hour, minute,
	// or second.
	ErrInvalidTime = &ErrorKind{"remind: invalid time of day"}
	// ErrUnfillableDate: a fully-specified date fell before the lower bound
	// in a context requiring forward progress, with no sensible advancement.
	ErrUnfillableDate = &ErrorKind{"remind: unfillable date"}
	// ErrEmptyRecurrence: a recurrence with zero date patterns reached
	// lowering.
	ErrEmptyRecurrence = &ErrorKind{"remind: recurrence has no date patterns"}
	// ErrIllFormedRange: a zero step on a time range, an empty weekday
	// mask, or from > until.
	ErrIllFormedRange = &ErrorKind{"remind: ill-formed range"}
)
