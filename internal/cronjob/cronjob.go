// Package cronjob adapts a standard five-field cron expression to the same
// Next(now) (time.Time, bool) contract remind.Pattern exposes, so a cron
// string and a lowered recurrence can sit side by side in the same store
// and poller without either caring which one it is.
package cronjob

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Job wraps a parsed cron schedule plus the expression it came from, kept
// around for display and persistence.
type Job struct {
	schedule cron.Schedule
	expr     string
}

// Parse parses a standard five-field cron expression (minute hour
// day-of-month month day-of-week), also accepting the predefined
// descriptors (@hourly, @daily, @weekly, @monthly, @yearly, @every
// <duration>).
func Parse(expr string) (*Job, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("cronjob: parsing %q: %w", expr, err)
	}
	return &Job{schedule: schedule, expr: expr}, nil
}

// Next reports the first instant strictly after cur that the schedule
// fires. ok is false only when the underlying schedule reports no next
// instant (the zero time); the bool return matches the
// Next(time.Time) (time.Time, bool) shape shared with remind.Pattern.
func (j *Job) Next(cur time.Time) (time.Time, bool) {
	next := j.schedule.Next(cur)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

// String returns the expression Job was parsed from.
func (j *Job) String() string {
	return j.expr
}
