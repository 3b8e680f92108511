// Command reminderd runs the reminder delivery loop: it loads a store of
// scheduled entries, polls for ones that are due, and hands each to a
// Deliverer. The Deliverer in this binary prints to stdout; wiring a real
// chat backend is outside this package's concern.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/remind-cal/remind/internal/config"
	"github.com/remind-cal/remind/internal/poller"
	"github.com/remind-cal/remind/internal/store"
)

type options struct {
	ConfigPath string `long:"config" short:"c" description:"path to the YAML config file" default:"reminderd.yaml"`
	Verbose    bool   `long:"verbose" short:"v" description:"enable debug logging"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	log := logrus.New()
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(opts, log); err != nil {
		log.WithError(err).Fatal("reminderd exited with error")
	}
}

func run(opts options, log *logrus.Logger) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	deliverer := stdoutDeliverer{log: log.WithField("component", "deliverer")}
	p := poller.New(st, deliverer, cfg.PollInterval(), log.WithField("component", "poller"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.WithFields(logrus.Fields{
		"store_path":    cfg.StorePath,
		"poll_interval": cfg.PollInterval(),
	}).Info("starting reminderd")

	p.Run(ctx)

	log.Info("reminderd stopped")
	return nil
}

// stdoutDeliverer prints a reminder's description to stdout. It exists to
// make the poller demonstrable without a real chat backend wired in.
type stdoutDeliverer struct {
	log *logrus.Entry
}

func (d stdoutDeliverer) Deliver(_ context.Context, e store.Entry) error {
	fmt.Printf("[reminder] %s: %s\n", e.Owner, e.Description)
	d.log.WithField("entry_id", e.ID).Info("delivered reminder")
	return nil
}
