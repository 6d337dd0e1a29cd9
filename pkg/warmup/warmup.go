// Package warmup keeps a flight provider session warm across runs by
// periodically resetting and reissuing the scheduler's warm-up query,
// instead of relying on each run's one-shot warm-up alone.
package warmup

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/gilby125/go-home-router/pkg/logger"
)

// Warmer is the subset of scheduler.Scheduler this package depends on.
type Warmer interface {
	Warmup(ctx context.Context, onLog func(string))
	ResetWarmup()
}

// Scheduler re-issues a throwaway flight warm-up query on a cron
// schedule, so a long-lived server process doesn't let the flight
// provider's scraped session go cold between user requests.
type Scheduler struct {
	warmer Warmer
	cron   *cron.Cron
	log    *logger.Logger

	mu      sync.Mutex
	entryID cron.EntryID
	running bool
}

// New builds a Scheduler; the cron schedule is given later to Start.
func New(warmer Warmer, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}
	return &Scheduler{warmer: warmer, cron: cron.New(), log: log}
}

// Start schedules the periodic re-warm under spec and starts the cron
// loop. spec is a standard 5-field cron expression (e.g. "0 */4 * * *"
// for every 4 hours). Calling Start twice without Stop replaces the
// prior schedule.
func (s *Scheduler) Start(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.cron.Remove(s.entryID)
	}

	entryID, err := s.cron.AddFunc(spec, s.runOnce)
	if err != nil {
		return err
	}
	s.entryID = entryID
	if !s.running {
		s.cron.Start()
		s.running = true
	}
	return nil
}

// Stop halts the cron loop and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
}

func (s *Scheduler) runOnce() {
	s.warmer.ResetWarmup()
	s.warmer.Warmup(context.Background(), func(msg string) {
		s.log.Info(msg)
	})
}
