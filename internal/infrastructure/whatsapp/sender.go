package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pelada-api/internal/config"
	"golang.org/x/time/rate"
)

// Sender sends text messages through a WPPConnect-style gateway bridge that
// owns the single authenticated WhatsApp session.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

type sender struct {
	httpClient *http.Client
	baseURL    string
	session    string
	token      string

	// The gateway session tolerates neither parallel sends nor bursts, so
	// every send takes the mutex and waits on the limiter.
	mu      sync.Mutex
	limiter *rate.Limiter
}

func NewSender(cfg *config.Config) Sender {
	return &sender{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.WAGatewayURL,
		session:    cfg.WAGatewaySession,
		token:      cfg.WAGatewayToken,
		limiter:    rate.NewLimiter(rate.Limit(cfg.WASendRate), 1),
	}
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendText posts one message to the gateway. Recipient handles are opaque:
// individual phone ids or group ids, the gateway resolves them.
func (s *sender) SendText(ctx context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(sendMessageRequest{Phone: to, Message: body})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/api/%s/send-message", s.baseURL, s.session)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, msg)
	}
	return nil
}
