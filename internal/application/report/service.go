// Package report exports per-session attendance reports to object storage.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/pelada-api/internal/domain"
)

const presignTTL = 24 * time.Hour

// ConfirmationStore lists the rows that make up a report.
type ConfirmationStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]domain.Confirmation, error)
}

// PlayerStore resolves player names for the report.
type PlayerStore interface {
	Get(ctx context.Context, playerID string) (*domain.Player, error)
}

// SessionStore verifies the session exists.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*domain.GameSession, error)
}

// ObjectStore is the minimal object-storage surface the service needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Result is the outcome of one export.
type Result struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Service interface {
	Export(ctx context.Context, sessionID string) (*Result, error)
}

type service struct {
	confirmations ConfirmationStore
	players       PlayerStore
	sessions      SessionStore
	objects       ObjectStore
}

func NewService(confirmations ConfirmationStore, players PlayerStore, sessions SessionStore, objects ObjectStore) Service {
	return &service{confirmations: confirmations, players: players, sessions: sessions, objects: objects}
}

// Export renders the session's confirmations as CSV, uploads it and returns a
// presigned download URL.
func (s *service) Export(ctx context.Context, sessionID string) (*Result, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	confs, err := s.confirmations.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"player", "phone", "category", "status", "answered_at"})
	for _, c := range confs {
		name, phone, category := c.PlayerID, "", ""
		if p, err := s.players.Get(ctx, c.PlayerID); err == nil {
			name, phone, category = p.Name, p.Phone, p.Category
		}
		answeredAt := ""
		if c.ConfirmedAt != nil {
			answeredAt = c.ConfirmedAt.Format(time.RFC3339)
		} else if c.DeclinedAt != nil {
			answeredAt = c.DeclinedAt.Format(time.RFC3339)
		}
		_ = w.Write([]string{name, phone, category, c.Status, answeredAt})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.csv", sess.Date, sessionID)
	if _, err := s.objects.Upload(ctx, key, &buf, "text/csv"); err != nil {
		return nil, err
	}
	url, err := s.objects.PresignedURL(ctx, key, presignTTL)
	if err != nil {
		return nil, err
	}
	return &Result{Key: key, URL: url}, nil
}
