package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop is the engine's control loop: every interval it fetches candidates,
// resolves what is due and hands due items to the dispatcher. A tick that
// fails is logged and swallowed; the loop only stops when its context is
// cancelled. A new tick never starts before the previous one finished.
type Loop struct {
	repo        Repository
	dispatcher  *Dispatcher
	interval    time.Duration
	tickTimeout time.Duration
	concurrency int
	logger      *slog.Logger
	now         func() time.Time // injectable for tests
}

func NewLoop(repo Repository, dispatcher *Dispatcher, interval, tickTimeout time.Duration, concurrency int, logger *slog.Logger) *Loop {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loop{
		repo:        repo,
		dispatcher:  dispatcher,
		interval:    interval,
		tickTimeout: tickTimeout,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// Run blocks until ctx is cancelled. An in-flight tick is allowed to finish
// (bounded by the tick timeout); no new tick starts after cancellation.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("reminder loop started", "interval", l.interval, "tick_timeout", l.tickTimeout)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("reminder loop stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

func (l *Loop) tick(parent context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("tick panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(parent, l.tickTimeout)
	defer cancel()

	now := l.now()
	candidates, err := l.repo.FetchActiveCandidates(ctx, now)
	if err != nil {
		// Store unreachable: abort the whole tick before any write happened.
		l.logger.Error("tick failed: fetch candidates", "err", err)
		return
	}

	due := Resolve(now, candidates)
	if len(due) == 0 {
		return
	}
	l.logger.Info("tick resolved due reminders", "count", len(due))

	// Due items of one session stay in fire-time order on a single goroutine;
	// different sessions may dispatch concurrently. Actual sends are
	// serialized inside the transport, so this only overlaps the store work.
	groups := groupBySession(due)
	sem := make(chan struct{}, l.concurrency)
	var wg sync.WaitGroup
	for _, group := range groups {
		wg.Add(1)
		sem <- struct{}{}
		go func(items []DueNotification) {
			defer wg.Done()
			defer func() { <-sem }()
			l.dispatchGroup(ctx, items)
		}(group)
	}
	wg.Wait()
}

func (l *Loop) dispatchGroup(ctx context.Context, items []DueNotification) {
	for _, due := range items {
		if ctx.Err() != nil {
			l.logger.Warn("tick timed out, remaining items deferred to next tick",
				"session_id", due.Candidate.Session.SessionID)
			return
		}
		out, err := l.dispatcher.Dispatch(ctx, due)
		if err != nil {
			// Store trouble mid-dispatch: stop this session's remaining items,
			// they stay due and will be retried next tick.
			l.logger.Error("dispatch failed",
				"session_id", due.Candidate.Session.SessionID, "rule", due.Rule.Number, "err", err)
			return
		}
		l.logger.Info("reminder dispatched",
			"session_id", due.Candidate.Session.SessionID,
			"rule", due.Rule.Number,
			"message_type", due.Rule.MessageType,
			"fire_at", due.FireAt,
			"status", out.Status,
			"recipients", out.Recipients,
			"failures", out.Failures)
	}
}

// groupBySession splits the due list into per-session slices, preserving the
// resolver's ordering both across groups and inside each group.
func groupBySession(due []DueNotification) [][]DueNotification {
	index := make(map[string]int)
	var groups [][]DueNotification
	for _, d := range due {
		sid := d.Candidate.Session.SessionID
		i, ok := index[sid]
		if !ok {
			i = len(groups)
			index[sid] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], d)
	}
	return groups
}
