// Package jobs runs the background maintenance schedule: archiving
// expired polls and pruning stale quota counters.
package jobs

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"gercekmi.com/backend/internal/common"
	"gercekmi.com/backend/internal/features/polls"
	"gercekmi.com/backend/internal/features/quota"
)

// quota rows older than this are dropped by the nightly prune.
const quotaRetention = 30 * 24 * time.Hour

type Scheduler struct {
	cron  *cron.Cron
	db    *pgxpool.Pool
	polls *polls.Repository
	quota *quota.Tracker
	clock common.Clock
	loc   *time.Location
}

func NewScheduler(db *pgxpool.Pool, pollRepo *polls.Repository, tracker *quota.Tracker, clock common.Clock, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(loc)),
		db:    db,
		polls: pollRepo,
		quota: tracker,
		clock: clock,
		loc:   loc,
	}
}

// Start registers the jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("5 0 * * *", s.archiveExpired); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("15 0 * * *", s.pruneQuota); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 * * * *", s.heartbeat); err != nil {
		return err
	}
	s.cron.Start()
	logrus.Info("scheduler started")
	return nil
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logrus.Info("scheduler stopped")
}

// archiveExpired reconciles the stored is_active flag with the clock.
// The flag is cosmetic; serving paths derive liveness from expires_at.
func (s *Scheduler) archiveExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	archived, err := s.polls.ArchiveExpired(ctx, s.clock.Now())
	if err != nil {
		logrus.WithError(err).Error("failed to archive expired polls")
		return
	}
	if archived > 0 {
		logrus.WithField("count", archived).Info("archived expired polls")
	}
}

func (s *Scheduler) pruneQuota() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	before := common.Day(s.clock.Now().Add(-quotaRetention), s.loc)
	pruned, err := s.quota.Prune(ctx, s.db, before)
	if err != nil {
		logrus.WithError(err).Error("failed to prune quota counters")
		return
	}
	if pruned > 0 {
		logrus.WithField("count", pruned).Info("pruned stale quota counters")
	}
}

func (s *Scheduler) heartbeat() {
	logrus.WithField("time", s.clock.Now().In(s.loc).Format(time.RFC3339)).Debug("scheduler heartbeat")
}
