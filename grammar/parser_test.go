package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descOf(t *testing.T, req ReminderRequest) string {
	t.Helper()
	if req.Description == nil {
		return ""
	}
	return string(*req.Description)
}

func TestParseCountdown(t *testing.T) {
	req, err := Parse("1w1h2m3s countdown")
	require.NoError(t, err)
	require.NotNil(t, req.Pattern)
	require.NotNil(t, req.Pattern.Countdown)
	assert.Equal(t, Interval{Weeks: 1, Hours: 1, Minutes: 2, Seconds: 3}, req.Pattern.Countdown.Duration)
	assert.Equal(t, "countdown", descOf(t, req))
}

func TestParseDailyHourlyWindow(t *testing.T) {
	req, err := Parse("- 11-18/1h periodic")
	require.NoError(t, err)
	rec := req.Pattern.Recurrence
	require.NotNil(t, rec)
	require.Len(t, rec.DatePatterns, 1)
	require.NotNil(t, rec.DatePatterns[0].Range)
	require.NotNil(t, rec.DatePatterns[0].Range.DateDivisor.Interval)
	assert.Equal(t, DateInterval{Days: 1}, *rec.DatePatterns[0].Range.DateDivisor.Interval)

	require.Len(t, rec.TimePatterns, 1)
	require.NotNil(t, rec.TimePatterns[0].Range)
	tr := rec.TimePatterns[0].Range
	require.NotNil(t, tr.From)
	require.NotNil(t, tr.Until)
	assert.Equal(t, 11, tr.From.Hour)
	assert.Equal(t, 18, tr.Until.Hour)
	assert.Equal(t, TimeInterval{Hours: 1}, tr.Interval)

	assert.Equal(t, "periodic", descOf(t, req))
}

func TestParseDateRangeWithDayStepAndClock(t *testing.T) {
	req, err := Parse("3-6/2d 13:37 date range")
	require.NoError(t, err)
	rec := req.Pattern.Recurrence
	require.NotNil(t, rec.DatePatterns[0].Range)
	dr := rec.DatePatterns[0].Range
	require.NotNil(t, dr.From.Day)
	assert.Equal(t, 3, *dr.From.Day)
	require.NotNil(t, dr.Until.Day)
	assert.Equal(t, 6, *dr.Until.Day)
	require.NotNil(t, dr.DateDivisor.Interval)
	assert.Equal(t, DateInterval{Days: 2}, *dr.DateDivisor.Interval)

	require.NotNil(t, rec.TimePatterns[0].Point)
	assert.Equal(t, Time{13, 37, 0}, *rec.TimePatterns[0].Point)
	assert.Equal(t, "date range", descOf(t, req))
}

func TestParseMonthDayWithMonthlyStep(t *testing.T) {
	req, err := Parse("12/31/1MONTH 13:37")
	require.NoError(t, err)
	rec := req.Pattern.Recurrence
	dr := rec.DatePatterns[0].Range
	require.NotNil(t, dr)
	require.NotNil(t, dr.From.Month)
	require.NotNil(t, dr.From.Day)
	assert.Equal(t, 12, *dr.From.Month)
	assert.Equal(t, 31, *dr.From.Day)
	require.NotNil(t, dr.DateDivisor.Interval)
	assert.Equal(t, DateInterval{Months: 1}, *dr.DateDivisor.Interval)

	require.NotNil(t, rec.TimePatterns[0].Point)
	assert.Equal(t, Time{13, 37, 0}, *rec.TimePatterns[0].Point)
	assert.Nil(t, req.Description)
}

func TestParseWeekdayListWithClock(t *testing.T) {
	req, err := Parse("/fri,mon 11:00")
	require.NoError(t, err)
	rec := req.Pattern.Recurrence
	dr := rec.DatePatterns[0].Range
	require.NotNil(t, dr.DateDivisor.Weekdays)
	assert.Equal(t, Friday|Monday, *dr.DateDivisor.Weekdays)
	require.NotNil(t, rec.TimePatterns[0].Point)
	assert.Equal(t, Time{11, 0, 0}, *rec.TimePatterns[0].Point)
}

func TestParseWeekdayRangeWrapsAcrossWeekBoundary(t *testing.T) {
	mask, err := parseWeekdayList("fri-mon")
	require.NoError(t, err)
	assert.Equal(t, Friday|Saturday|Sunday|Monday, mask)
}

func TestParseAbsoluteDateDotFormat(t *testing.T) {
	req, err := Parse("07.06.2025 13:37")
	require.NoError(t, err)
	rec := req.Pattern.Recurrence
	hd := rec.DatePatterns[0].Point
	require.NotNil(t, hd)
	require.NotNil(t, hd.Day)
	require.NotNil(t, hd.Month)
	require.NotNil(t, hd.Year)
	assert.Equal(t, 7, *hd.Day)
	assert.Equal(t, 6, *hd.Month)
	assert.Equal(t, 2025, *hd.Year)
	require.NotNil(t, rec.TimePatterns[0].Point)
	assert.Equal(t, Time{13, 37, 0}, *rec.TimePatterns[0].Point)
}

func TestParseAbsoluteDateSlashYMDFormat(t *testing.T) {
	req, err := Parse("2025/6/7")
	require.NoError(t, err)
	hd := req.Pattern.Recurrence.DatePatterns[0].Point
	require.NotNil(t, hd)
	assert.Equal(t, 2025, *hd.Year)
	assert.Equal(t, 6, *hd.Month)
	assert.Equal(t, 7, *hd.Day)
}

func TestParseBareTimeDefaultsDateToToday(t *testing.T) {
	req, err := Parse("13:37 lunch")
	require.NoError(t, err)
	rec := req.Pattern.Recurrence
	require.NotNil(t, rec.DatePatterns[0].Point)
	assert.Nil(t, rec.DatePatterns[0].Point.Year)
	assert.Nil(t, rec.DatePatterns[0].Point.Month)
	assert.Nil(t, rec.DatePatterns[0].Point.Day)
	assert.Equal(t, "lunch", descOf(t, req))
}

func TestParseDescriptionPreservesInternalWhitespace(t *testing.T) {
	req, err := Parse("13:37   call   mom  ")
	require.NoError(t, err)
	assert.Equal(t, "call   mom", descOf(t, req))
}

func TestParseEmptyUtteranceErrors(t *testing.T) {
	_, err := Parse("   ")
	assert.Error(t, err)
}

func TestParseUnrecognizedTokenErrors(t *testing.T) {
	_, err := Parse("whenever you feel like it")
	assert.Error(t, err)
}

func TestParseWeekdayListRejectsUnknownName(t *testing.T) {
	_, err := parseWeekdayList("funday")
	assert.Error(t, err)
}

func TestParseWeekdayListRejectsEmptyChunk(t *testing.T) {
	_, err := parseWeekdayList("mon,,fri")
	assert.Error(t, err)
}
