package poller

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remind-cal/remind/grammar"
	"github.com/remind-cal/remind/internal/store"
)

type fakeDeliverer struct {
	delivered []store.Entry
	fail      bool
}

func (f *fakeDeliverer) Deliver(_ context.Context, e store.Entry) error {
	if f.fail {
		return assert.AnError
	}
	f.delivered = append(f.delivered, e)
	return nil
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "reminderd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func silentLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(noopWriter{})
	return logrus.NewEntry(log)
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

func countdownEntry(fireAt time.Time) store.Entry {
	return store.Entry{
		ID:    uuid.New(),
		Owner: "alice",
		Surface: grammar.ReminderPattern{
			Countdown: &grammar.Countdown{Duration: grammar.Interval{Seconds: 1}},
		},
		TzName:    "UTC",
		CreatedAt: fireAt.Add(-time.Hour),
		NextFire:  fireAt,
	}
}

func cronEntry(fireAt time.Time) store.Entry {
	return store.Entry{
		ID:        uuid.New(),
		Owner:     "carol",
		CronExpr:  "0 * * * *",
		TzName:    "UTC",
		CreatedAt: fireAt.Add(-time.Hour),
		NextFire:  fireAt,
	}
}

func TestTickDeliversDueEntryAndRetiresCountdown(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2007, time.February, 2, 13, 0, 0, 0, time.UTC)
	e := countdownEntry(now.Add(-time.Minute))
	require.NoError(t, st.Put(e))

	d := &fakeDeliverer{}
	p := New(st, d, time.Second, silentLogger())
	p.now = func() time.Time { return now }

	p.tick(context.Background())

	require.Len(t, d.delivered, 1)
	got, found, err := st.Get(e.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.Done, "a countdown has nothing left to deliver after its one shot")
}

func TestTickLeavesEntryDueOnDeliveryFailure(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2007, time.February, 2, 13, 0, 0, 0, time.UTC)
	e := countdownEntry(now.Add(-time.Minute))
	require.NoError(t, st.Put(e))

	d := &fakeDeliverer{fail: true}
	p := New(st, d, time.Second, silentLogger())
	p.now = func() time.Time { return now }

	p.tick(context.Background())

	assert.Empty(t, d.delivered)
	got, found, err := st.Get(e.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, got.Done, "a failed delivery stays due for the next tick")
}

func recurrenceEntry(fireAt time.Time) store.Entry {
	hour, minute := 13, 0
	return store.Entry{
		ID:    uuid.New(),
		Owner: "dave",
		Surface: grammar.ReminderPattern{
			Recurrence: &grammar.Recurrence{
				DatePatterns: []grammar.DatePattern{{
					Range: &grammar.DateRange{
						From:        grammar.HoleyDate{},
						DateDivisor: grammar.DateDivisor{Interval: &grammar.DateInterval{Days: 1}},
					},
				}},
				TimePatterns: []grammar.TimePattern{{Point: &grammar.Time{Hour: hour, Minute: minute}}},
			},
		},
		TzName:    "UTC",
		CreatedAt: fireAt.Add(-24 * time.Hour),
		NextFire:  fireAt,
	}
}

func TestTickReschedulesDailyRecurrence(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2007, time.February, 2, 13, 0, 0, 0, time.UTC)
	e := recurrenceEntry(now)
	require.NoError(t, st.Put(e))

	d := &fakeDeliverer{}
	p := New(st, d, time.Second, silentLogger())
	p.now = func() time.Time { return now }

	p.tick(context.Background())

	require.Len(t, d.delivered, 1)
	got, found, err := st.Get(e.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, got.Done, "a daily recurrence keeps producing instants")
	assert.True(t, got.NextFire.Equal(time.Date(2007, time.February, 3, 13, 0, 0, 0, time.UTC)), "got %v", got.NextFire)
}

func TestTickReschedulesCronEntryThroughCronjob(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2007, time.February, 2, 13, 0, 0, 0, time.UTC)
	e := cronEntry(now.Add(-time.Minute))
	require.NoError(t, st.Put(e))

	d := &fakeDeliverer{}
	p := New(st, d, time.Second, silentLogger())
	p.now = func() time.Time { return now }

	p.tick(context.Background())

	require.Len(t, d.delivered, 1)
	got, found, err := st.Get(e.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, got.Done, "a cron schedule never exhausts itself")
	assert.True(t, got.NextFire.Equal(time.Date(2007, time.February, 2, 14, 0, 0, 0, time.UTC)), "got %v", got.NextFire)
}

func TestTickSkipsEntriesNotYetDue(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2007, time.February, 2, 13, 0, 0, 0, time.UTC)
	e := countdownEntry(now.Add(time.Minute))
	require.NoError(t, st.Put(e))

	d := &fakeDeliverer{}
	p := New(st, d, time.Second, silentLogger())
	p.now = func() time.Time { return now }

	p.tick(context.Background())

	assert.Empty(t, d.delivered)
}
