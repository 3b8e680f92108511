// Package poller runs the delivery loop: at a fixed interval it asks the
// store for due entries, hands each to a Deliverer, and advances or retires
// the entry depending on what happens next.
package poller

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/remind-cal/remind"
	"github.com/remind-cal/remind/internal/cronjob"
	"github.com/remind-cal/remind/internal/store"
	"github.com/remind-cal/remind/internal/tzcatalog"
)

// Deliverer sends a reminder's content to wherever it's supposed to end up
// (a chat, an email, a webhook). Delivery failures are retried on the next
// tick: the entry is left due until Deliver succeeds.
type Deliverer interface {
	Deliver(ctx context.Context, e store.Entry) error
}

// Poller drives the 1Hz-scale delivery loop.
type Poller struct {
	store     *store.Store
	deliverer Deliverer
	interval  time.Duration
	log       *logrus.Entry
	now       func() time.Time
}

// New builds a Poller. interval is typically one second; the poller's clock
// is always time.Now in UTC, and only tests override it.
func New(st *store.Store, d Deliverer, interval time.Duration, log *logrus.Entry) *Poller {
	return &Poller{
		store:     st,
		deliverer: d,
		interval:  interval,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run blocks, ticking every interval, until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	now := p.now()
	due, err := p.store.Due(now)
	if err != nil {
		p.log.WithError(err).Error("listing due entries")
		return
	}
	for _, e := range due {
		p.deliverOne(ctx, e, now)
	}
}

func (p *Poller) deliverOne(ctx context.Context, e store.Entry, now time.Time) {
	log := p.log.WithField("entry_id", e.ID)

	if err := p.deliverer.Deliver(ctx, e); err != nil {
		log.WithError(err).Error("delivery failed, will retry next tick")
		return
	}

	if e.CronExpr != "" {
		p.rescheduleCron(log, e, now)
		return
	}
	p.reschedulePattern(log, e, now)
}

// rescheduleCron advances a cron-driven entry through internal/cronjob,
// the poller's collaborator for reminders stored as a raw cron expression
// rather than a lowered remind.Pattern.
func (p *Poller) rescheduleCron(log *logrus.Entry, e store.Entry, now time.Time) {
	job, err := cronjob.Parse(e.CronExpr)
	if err != nil {
		log.WithError(err).Error("parsing cron expression after delivery, retiring entry")
		e.Done = true
		p.persist(log, e)
		return
	}
	next, ok := job.Next(now)
	e.Done = !ok
	if ok {
		e.NextFire = next
		log.WithField("next_fire", next).Info("delivered, rescheduled via cron")
	} else {
		log.Info("delivered, cron schedule exhausted")
	}
	p.persist(log, e)
}

// reschedulePattern advances an entry carrying a lowered remind.Pattern. A
// Countdown fires at most once ever, so it's retired directly rather than
// relowered: relowering would hand back a fresh, unfired Countdown every
// time (its used flag isn't part of the surface grammar.Countdown it's
// built from), which would reschedule it forever instead of retiring it.
func (p *Poller) reschedulePattern(log *logrus.Entry, e store.Entry, now time.Time) {
	if e.Surface.Countdown != nil {
		e.Done = true
		log.Info("delivered, countdown fires at most once")
		p.persist(log, e)
		return
	}

	loc, err := tzcatalog.Resolve(e.TzName)
	if err != nil {
		log.WithError(err).Error("resolving entry timezone, retiring entry")
		e.Done = true
		p.persist(log, e)
		return
	}

	pattern, err := remind.PatternFromWithTz(e.Surface, remind.NewTz(loc), e.CreatedAt)
	if err != nil {
		log.WithError(err).Error("relowering pattern after delivery, retiring entry")
		e.Done = true
		p.persist(log, e)
		return
	}

	next, ok := pattern.Next(now)
	e.Done = !ok
	if ok {
		e.NextFire = next
		log.WithField("next_fire", next).Info("delivered, rescheduled")
	} else {
		log.Info("delivered, no further occurrences")
	}
	p.persist(log, e)
}

func (p *Poller) persist(log *logrus.Entry, e store.Entry) {
	if err := p.store.Put(e); err != nil {
		log.WithError(err).Error("persisting entry after delivery")
	}
}
