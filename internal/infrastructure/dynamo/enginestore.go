package dynamo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pelada-api/internal/domain"
	"github.com/pelada-api/internal/engine"
)

// EngineStore composes the per-table repos into the narrow repository surface
// the reminder engine consumes. It joins sessions with their game,
// notification config (parsed and validated) and already-sent rule numbers,
// and skips, with a warning, any candidate that cannot be resolved, so one
// bad record never stalls the whole tick.
type EngineStore struct {
	sessions      *SessionRepo
	games         *GameRepo
	configs       *ConfigRepo
	sent          *SentRepo
	players       *PlayerRepo
	confirmations *ConfirmationRepo
	loc           *time.Location
	logger        *slog.Logger
}

func NewEngineStore(
	sessions *SessionRepo,
	games *GameRepo,
	configs *ConfigRepo,
	sent *SentRepo,
	players *PlayerRepo,
	confirmations *ConfirmationRepo,
	loc *time.Location,
	logger *slog.Logger,
) *EngineStore {
	return &EngineStore{
		sessions:      sessions,
		games:         games,
		configs:       configs,
		sent:          sent,
		players:       players,
		confirmations: confirmations,
		loc:           loc,
		logger:        logger,
	}
}

// FetchActiveCandidates implements engine.Repository. The repository-side
// floor is "today or later" in the engine's location.
func (s *EngineStore) FetchActiveCandidates(ctx context.Context, now time.Time) ([]engine.Candidate, error) {
	floor := now.In(s.loc).Format(domain.DateLayout)
	sessions, err := s.sessions.ListScheduledFrom(ctx, floor)
	if err != nil {
		return nil, err
	}

	gameCache := make(map[string]*domain.Game)
	var candidates []engine.Candidate
	for i := range sessions {
		sess := &sessions[i]

		cfg, err := s.configs.GetBySession(ctx, sess.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // session without reminders configured
			}
			return nil, err
		}
		if !cfg.Active {
			continue
		}
		schedule, err := domain.ParseSchedule(cfg.ScheduleJSON)
		if err != nil {
			s.logger.Warn("skipping candidate: malformed schedule",
				"session_id", sess.SessionID, "config_id", cfg.ConfigID, "err", err)
			continue
		}
		cfg.Schedule = schedule

		startsAt, err := sess.StartsAt(s.loc)
		if err != nil {
			s.logger.Warn("skipping candidate: invalid session start", "session_id", sess.SessionID, "err", err)
			continue
		}

		game, ok := gameCache[sess.GameID]
		if !ok {
			game, err = s.games.Get(ctx, sess.GameID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					s.logger.Warn("skipping candidate: game missing", "session_id", sess.SessionID, "game_id", sess.GameID)
					continue
				}
				return nil, err
			}
			gameCache[sess.GameID] = game
		}

		sentRecs, err := s.sent.ListBySession(ctx, sess.SessionID)
		if err != nil {
			return nil, err
		}
		sentSet := make(map[int]bool, len(sentRecs))
		for _, rec := range sentRecs {
			sentSet[rec.RuleNumber] = true
		}

		candidates = append(candidates, engine.Candidate{
			Session:  sess,
			Game:     game,
			Config:   cfg,
			StartsAt: startsAt,
			Sent:     sentSet,
		})
	}
	return candidates, nil
}

// MarkSent implements engine.Repository via the ledger's conditional put.
func (s *EngineStore) MarkSent(ctx context.Context, sessionID string, ruleNumber int, sentAt time.Time) error {
	return s.sent.Put(ctx, &domain.SentReminder{
		SessionID:  sessionID,
		RuleNumber: ruleNumber,
		SentAt:     sentAt,
	})
}

func (s *EngineStore) ListActivePlayers(ctx context.Context) ([]domain.Player, error) {
	return s.players.ListActive(ctx)
}

func (s *EngineStore) GetConfirmation(ctx context.Context, sessionID, playerID string) (*domain.Confirmation, error) {
	return s.confirmations.Get(ctx, sessionID, playerID)
}

// EnsurePending creates the pending row unless the pair already has one.
func (s *EngineStore) EnsurePending(ctx context.Context, sessionID, playerID string, now time.Time) (*domain.Confirmation, error) {
	conf := domain.NewPendingConfirmation(sessionID, playerID, now)
	err := s.confirmations.PutIfAbsent(ctx, conf)
	if err == nil {
		return conf, nil
	}
	if errors.Is(err, domain.ErrConflict) {
		return s.confirmations.Get(ctx, sessionID, playerID)
	}
	return nil, err
}
