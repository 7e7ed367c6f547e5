package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"zoo/pkg/logger"
)

type Expirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// ExpirySweeper periodically moves overdue Active tickets to Expired.
type ExpirySweeper struct {
	cron    *cron.Cron
	expirer Expirer
	timeout time.Duration
	log     *logger.Logger
}

func NewExpirySweeper(expirer Expirer, schedule string, timeout time.Duration, log *logger.Logger) (*ExpirySweeper, error) {
	cl := cronLogger{log: log}
	s := &ExpirySweeper{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		expirer: expirer,
		timeout: timeout,
		log:     log,
	}

	if _, err := s.cron.AddFunc(schedule, s.Run); err != nil {
		return nil, fmt.Errorf("invalid ticket expiry schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Run performs a single sweep.
func (s *ExpirySweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.expirer.ExpireOverdue(ctx); err != nil {
		s.log.Warn("Ticket expiry sweep failed", "error", err)
	}
}

func (s *ExpirySweeper) Start() {
	s.cron.Start()
	s.log.Info("Ticket expiry sweeper started")
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to end.
func (s *ExpirySweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Ticket expiry sweeper did not stop in time")
	}
}

type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
