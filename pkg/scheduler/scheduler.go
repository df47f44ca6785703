// Package scheduler runs reconciliation rounds on a fixed interval until
// either the round limit is hit or the run is interrupted.
package scheduler

//go:generate mockery -name Reconciler

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
	"github.com/masa604/Task---Folder-Sync/pkg/sync"
)

// DefaultMaxRounds is the number of rounds run when Options.MaxRounds isn't
// set.
const DefaultMaxRounds = 10

// Reconciler brings a replica directory in line with its source.
type Reconciler interface {
	Reconcile(source, replica string) (sync.Result, error)
}

// Outcome is why Run stopped without an error.
type Outcome int

const (
	// RoundLimitReached means MaxRounds rounds completed.
	RoundLimitReached Outcome = iota

	// Interrupted means the context was cancelled between rounds.
	Interrupted
)

func (o Outcome) String() string {
	switch o {
	case RoundLimitReached:
		return "round limit reached"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Options configures a Scheduler.
type Options struct {
	MaxRounds int
	Interval  time.Duration
	Clock     clockwork.Clock
}

// Scheduler invokes a Reconciler once per interval.
type Scheduler struct {
	reconciler Reconciler
	source     string
	replica    string
	opts       Options
	log        log.FieldLogger
}

// New creates a Scheduler that reconciles `replica` with `source`.
func New(reconciler Reconciler, source, replica string, opts Options,
	logger log.FieldLogger) *Scheduler {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	return &Scheduler{
		reconciler: reconciler,
		source:     source,
		replica:    replica,
		opts:       opts,
		log:        logger,
	}
}

// Run reconciles immediately, and then after every interval. It never runs
// more than MaxRounds rounds, and doesn't wait after the last one.
// Cancelling `ctx` stops the loop before the next round starts. A round that
// is already running is allowed to finish.
// Errors from the Reconciler are fatal and returned as is.
func (s *Scheduler) Run(ctx context.Context) (Outcome, error) {
	rounds := 0
	for {
		if ctx.Err() != nil {
			return Interrupted, nil
		}

		if _, err := s.reconciler.Reconcile(s.source, s.replica); err != nil {
			return 0, err
		}

		s.log.WithField("round", rounds+1).Infof(
			"Sync finished. Waiting %s until next sync.", s.opts.Interval)

		rounds++
		if rounds >= s.opts.MaxRounds {
			s.log.Warnf("Max rounds (%d) hit. Ending process.", s.opts.MaxRounds)
			return RoundLimitReached, nil
		}

		select {
		case <-ctx.Done():
			return Interrupted, nil
		case <-s.opts.Clock.After(s.opts.Interval):
		}
	}
}

// IsFatal returns whether `err` returned by Run means that one of the
// directories is unusable.
func IsFatal(err error) bool {
	var dirErr errors.DirectoryUnavailable
	return errors.As(err, &dirErr)
}
