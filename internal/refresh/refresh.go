// Package refresh periodically re-syncs the owned-game libraries of every
// linked account, so find reports do not go stale between manual updates.
package refresh

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorhill/cronexpr"

	"github.com/mohammad-safakhou/steambuddy/config"
)

// Users lists the discord users with linked accounts.
type Users interface {
	LinkedDiscordUsers(ctx context.Context) ([]int64, error)
}

// LibrarySyncer re-ingests one user's libraries.
type LibrarySyncer interface {
	Refresh(ctx context.Context, discordID int64) (int, error)
}

// Scheduler drives library refreshes on a cron schedule. A blank cron spec
// disables it.
type Scheduler struct {
	users    Users
	syncer   LibrarySyncer
	cronSpec string
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	lastRun *time.Time
	stop    chan struct{}
	once    sync.Once
}

// New wires a Scheduler.
func New(cfg config.RefreshConfig, users Users, syncer LibrarySyncer, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(log.Writer(), "[REFRESH] ", log.LstdFlags)
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		users:    users,
		syncer:   syncer,
		cronSpec: cfg.Cron,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start launches the ticker loop. Does nothing when no cron spec is set.
func (s *Scheduler) Start() {
	if s.cronSpec == "" {
		return
	}
	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-s.stop:
				ticker.Stop()
				return
			case <-ticker.C:
				s.tick(context.Background())
			}
		}
	}()
}

// Stop terminates the ticker loop.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	last := s.lastRun
	s.mu.Unlock()

	if !isDue(s.cronSpec, last) {
		return
	}

	users, err := s.users.LinkedDiscordUsers(ctx)
	if err != nil {
		s.logger.Printf("listing linked users: %v", err)
		return
	}

	total := 0
	for _, discordID := range users {
		count, err := s.syncer.Refresh(ctx, discordID)
		if err != nil {
			s.logger.Printf("refreshing discord %d: %v", discordID, err)
			continue
		}
		total += count
	}
	s.logger.Printf("refreshed %d users, %d games seen", len(users), total)

	now := time.Now()
	s.mu.Lock()
	s.lastRun = &now
	s.mu.Unlock()
}

// isDue determines whether a refresh should run now given the last run time.
// Supports "@daily", "@hourly", and standard 5-field cron expressions.
func isDue(cronSpec string, last *time.Time) bool {
	now := time.Now()
	switch cronSpec {
	case "@daily":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= 24*time.Hour
	case "@hourly":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= time.Hour
	default:
		expr, err := cronexpr.Parse(cronSpec)
		if err != nil {
			if last == nil {
				return true
			}
			return now.Sub(*last) >= 24*time.Hour
		}
		if last == nil {
			return true
		}
		next := expr.Next(*last)
		return !next.After(now)
	}
}
