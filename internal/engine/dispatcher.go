package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pelada-api/internal/domain"
)

// Outcome statuses for one dispatched due notification.
const (
	OutcomeSent    = "sent"
	OutcomeSkipped = "skipped"
)

// Outcome summarises what happened to one due notification.
type Outcome struct {
	Status     string
	Recipients int
	Failures   int
}

// Dispatcher resolves the audience of a due notification, renders the
// message, pushes it through the transport and commits the SentReminder.
type Dispatcher struct {
	repo   Repository
	wa     Transport
	sms    SMSSender // nil when no fallback channel is configured
	logger *slog.Logger
	now    func() time.Time
}

func NewDispatcher(repo Repository, wa Transport, sms SMSSender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, wa: wa, sms: sms, logger: logger, now: time.Now}
}

// Dispatch handles one due notification. The SentReminder is committed after
// the dispatch attempt completes, regardless of per-recipient transport
// failures: the idempotency key is at rule granularity, and failed recipients
// are re-notified only through administrative re-triggering. A repository
// error before any send aborts without committing, so the rule stays due for
// the next tick.
func (d *Dispatcher) Dispatch(ctx context.Context, due DueNotification) (Outcome, error) {
	sessionID := due.Candidate.Session.SessionID

	audience, err := d.resolveAudience(ctx, due)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve audience for session %s rule %d: %w", sessionID, due.Rule.Number, err)
	}

	// Every audience member gets a pending row before anything is sent, so an
	// inbound response always has a row to land on.
	for _, p := range audience {
		if _, err := d.repo.EnsurePending(ctx, sessionID, p.PlayerID, d.now()); err != nil {
			return Outcome{}, fmt.Errorf("ensure pending for player %s: %w", p.PlayerID, err)
		}
	}

	body := RenderMessage(due)
	out := Outcome{Status: OutcomeSent, Recipients: len(audience)}

	game := due.Candidate.Game
	if game.NotifyGroup && game.WhatsAppGroupID != "" {
		// Configuration-level choice: one message to the group alias instead
		// of fanning out per player.
		out.Recipients = 1
		if err := d.wa.SendText(ctx, game.WhatsAppGroupID, body); err != nil {
			out.Failures++
			d.logger.Warn("group send failed",
				"session_id", sessionID, "rule", due.Rule.Number, "group", game.WhatsAppGroupID, "err", err)
		}
	} else {
		for _, p := range audience {
			if err := d.wa.SendText(ctx, p.Phone, body); err != nil {
				out.Failures++
				d.logger.Warn("send failed",
					"session_id", sessionID, "rule", due.Rule.Number, "player_id", p.PlayerID, "err", err)
				d.trySMSFallback(ctx, p, body)
			}
		}
	}

	if err := d.repo.MarkSent(ctx, sessionID, due.Rule.Number, d.now()); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Another writer beat us to the record; the rule is handled.
			out.Status = OutcomeSkipped
			return out, nil
		}
		return out, fmt.Errorf("mark sent for session %s rule %d: %w", sessionID, due.Rule.Number, err)
	}
	return out, nil
}

// resolveAudience applies the rule's target and, for final confirmations,
// narrows to players who have not answered yet.
func (d *Dispatcher) resolveAudience(ctx context.Context, due DueNotification) ([]domain.Player, error) {
	players, err := d.repo.ListActivePlayers(ctx)
	if err != nil {
		return nil, err
	}

	var audience []domain.Player
	for _, p := range players {
		if due.Rule.Target == domain.TargetMensalistas && p.Category != domain.CategoryMensalista {
			continue
		}
		if due.Rule.MessageType == domain.MessageFinalConfirmation {
			conf, err := d.repo.GetConfirmation(ctx, due.Candidate.Session.SessionID, p.PlayerID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			// Already decided players are not re-notified; players without a
			// row are implicitly pending.
			if conf != nil && !conf.Pending() {
				continue
			}
		}
		audience = append(audience, p)
	}
	return audience, nil
}

func (d *Dispatcher) trySMSFallback(ctx context.Context, p domain.Player, body string) {
	if d.sms == nil || !p.SMSFallback {
		return
	}
	if err := d.sms.SendSMS(ctx, p.Phone, body); err != nil {
		d.logger.Warn("sms fallback failed", "player_id", p.PlayerID, "err", err)
		return
	}
	d.logger.Info("sms fallback delivered", "player_id", p.PlayerID)
}
