// Package jobs runs the daily maintenance work: sweeping expired sessions
// and advancing note schedules so reminders line up with the treatment plan.
package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type SessionCleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type ScheduleAdvancer interface {
	AdvanceSchedules(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron     *cron.Cron
	locker   *redis.Client
	sessions SessionCleaner
	notes    ScheduleAdvancer
	log      zerolog.Logger
}

func NewScheduler(locker *redis.Client, sessions SessionCleaner, notes ScheduleAdvancer, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		locker:   locker,
		sessions: sessions,
		notes:    notes,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.sweepSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.advanceSchedules); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for in-flight jobs to finish, up to
// five seconds.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if !s.acquireLock(ctx, "carelink:jobs:session_sweep") {
		return
	}

	removed, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	s.log.Info().Int64("removed", removed).Msg("expired sessions swept")
}

func (s *Scheduler) advanceSchedules() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if !s.acquireLock(ctx, "carelink:jobs:schedule_advance") {
		return
	}

	advanced, err := s.notes.AdvanceSchedules(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("schedule advance failed")
		return
	}
	s.log.Info().Int64("advanced", advanced).Msg("note schedules advanced")
}

// acquireLock guards each job against concurrent API replicas. The lock is
// held well past the trigger time and left to expire on its own.
func (s *Scheduler) acquireLock(ctx context.Context, key string) bool {
	if s.locker == nil {
		return true
	}

	ok, err := s.locker.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), time.Hour).Result()
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("job lock unavailable")
		return false
	}
	return ok
}
