// Package scheduler drives the commute check windows: a single polling loop
// scans every user's windows each tick, fires traffic checks while a window
// is active, and rolls expired windows to the next day.
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/commute-alert-bot/internal/classifier"
	"github.com/xaenox/commute-alert-bot/internal/models"
	"github.com/xaenox/commute-alert-bot/internal/queue"
	"github.com/xaenox/commute-alert-bot/internal/schedule"
	"github.com/xaenox/commute-alert-bot/internal/storage"
	"github.com/xaenox/commute-alert-bot/internal/traffic"
)

// TrafficProvider is the external routing call a check runs. traffic.Client
// implements it.
type TrafficProvider interface {
	FetchDelay(ctx context.Context, origin, dest models.Coordinates, departAt time.Time) (traffic.RouteSummary, error)
}

// Config carries the scheduler timings. Location resolves "today" and
// "tomorrow" for window math; nil means the system zone.
type Config struct {
	PollInterval     time.Duration
	ThrottleInterval time.Duration
	QueryTimeout     time.Duration
	MaxConcurrent    int
	Location         *time.Location
}

// Scheduler owns no window state of its own: windows live in the store and
// are re-read every tick, so chat handlers and the loop never disagree.
type Scheduler struct {
	store      storage.Storage
	provider   TrafficProvider
	classifier *classifier.Classifier
	queue      *queue.DeliveryQueue
	logger     *zap.Logger

	pollInterval     time.Duration
	throttleInterval time.Duration
	queryTimeout     time.Duration
	workers          chan struct{}

	now func() time.Time
}

func New(store storage.Storage, provider TrafficProvider, clf *classifier.Classifier, q *queue.DeliveryQueue, cfg Config, logger *zap.Logger) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		store:            store,
		provider:         provider,
		classifier:       clf,
		queue:            q,
		logger:           logger,
		pollInterval:     cfg.PollInterval,
		throttleInterval: cfg.ThrottleInterval,
		queryTimeout:     cfg.QueryTimeout,
		workers:          make(chan struct{}, cfg.MaxConcurrent),
		now:              func() time.Time { return time.Now().In(loc) },
	}
}

// Run polls until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.logger.Info("scheduler started",
		zap.Duration("poll_interval", s.pollInterval),
		zap.Duration("throttle_interval", s.throttleInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick performs one scan over all users' windows. Any panic from a single
// cycle is logged and absorbed so the loop always reaches the next tick.
func (s *Scheduler) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler tick panicked", zap.Any("panic", r))
		}
	}()

	now := s.now()
	for _, entry := range s.store.WindowEntries() {
		profile, ok := s.store.GetProfile(entry.ChatID)
		if !ok || profile.State != models.StateComplete {
			s.logger.Warn("dropping scheduler entry without completed profile",
				zap.Int64("chat_id", entry.ChatID))
			s.store.DeleteWindows(entry.ChatID)
			continue
		}

		for _, leg := range []models.Leg{models.LegToOffice, models.LegToHome} {
			s.evaluateLeg(ctx, profile, leg, entry.Windows.Window(leg), now)
		}
	}
}

// evaluateLeg applies the per-leg state machine for one tick. Active is
// checked before Expired; the two legs never influence each other.
func (s *Scheduler) evaluateLeg(ctx context.Context, profile models.UserProfile, leg models.Leg, w models.CheckWindow, now time.Time) {
	switch {
	case w.Contains(now):
		if !s.dispatchCheck(ctx, profile, leg, now) {
			// Worker pool saturated; leave the window untouched and retry
			// on the next tick.
			return
		}
		// Push the window start past now so repeat checks inside the same
		// window stay at least one throttle interval apart. End is left
		// alone and still caps the repeats.
		err := s.store.UpdateWindows(profile.ChatID, func(set *models.WindowSet) {
			cur := set.Window(leg)
			cur.Start = now.Add(s.throttleInterval)
			set.SetWindow(leg, cur)
		})
		if err != nil {
			s.logger.Warn("failed to throttle window", zap.Error(err),
				zap.Int64("chat_id", profile.ChatID), zap.String("leg", string(leg)))
		}

	case now.After(w.End):
		before, after := schedule.LegOffsets(leg)
		next := schedule.NextDayWindow(w, before, after)
		err := s.store.UpdateWindows(profile.ChatID, func(set *models.WindowSet) {
			set.SetWindow(leg, next)
		})
		if err != nil {
			s.logger.Warn("failed to reschedule window", zap.Error(err),
				zap.Int64("chat_id", profile.ChatID), zap.String("leg", string(leg)))
			return
		}
		s.logger.Info("window rescheduled",
			zap.Int64("chat_id", profile.ChatID),
			zap.String("leg", string(leg)),
			zap.Time("start", next.Start),
			zap.Time("end", next.End))
	}
}

// dispatchCheck hands one traffic query to a worker so the tick never blocks
// on network I/O. Returns false when no worker slot is free.
func (s *Scheduler) dispatchCheck(ctx context.Context, profile models.UserProfile, leg models.Leg, now time.Time) bool {
	select {
	case s.workers <- struct{}{}:
	default:
		s.logger.Warn("all check workers busy, deferring check",
			zap.Int64("chat_id", profile.ChatID), zap.String("leg", string(leg)))
		return false
	}

	checkID := uuid.New().String()
	origin, dest := profile.HomeLocation, profile.OfficeLocation
	if leg == models.LegToHome {
		origin, dest = profile.OfficeLocation, profile.HomeLocation
	}

	go func() {
		defer func() { <-s.workers }()

		qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()

		summary, err := s.provider.FetchDelay(qctx, origin, dest, now)
		if err != nil {
			s.logger.Error("traffic check failed",
				zap.Error(err),
				zap.String("check_id", checkID),
				zap.Int64("chat_id", profile.ChatID),
				zap.String("leg", string(leg)))
			s.queue.Enqueue(profile.ChatID, s.classifier.ComposeFailure(leg, err))
			return
		}

		tier := s.classifier.Classify(summary.DelayMins())
		s.logger.Info("traffic check completed",
			zap.String("check_id", checkID),
			zap.Int64("chat_id", profile.ChatID),
			zap.String("leg", string(leg)),
			zap.Int("delay_mins", summary.DelayMins()),
			zap.Stringer("tier", tier))
		s.queue.Enqueue(profile.ChatID, s.classifier.ComposeAlert(leg, summary.TravelMins(), summary.DelayMins(), s.now()))
	}()
	return true
}
