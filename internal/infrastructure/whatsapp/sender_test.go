package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pelada-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender(cfg *config.Config, handler http.HandlerFunc) (Sender, *httptest.Server) {
	srv := httptest.NewServer(handler)
	cfg.WAGatewayURL = srv.URL
	return NewSender(cfg), srv
}

func TestSendText_RequestShape(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody sendMessageRequest
	)
	cfg := &config.Config{WAGatewaySession: "pelada", WAGatewayToken: "tok-123", WASendRate: 100}
	s, srv := newTestSender(cfg, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	err := s.SendText(context.Background(), "+5511900000001", "Lembrete: pelada hoje")

	require.NoError(t, err)
	assert.Equal(t, "/api/pelada/send-message", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "+5511900000001", gotBody.Phone)
	assert.Equal(t, "Lembrete: pelada hoje", gotBody.Message)
}

func TestSendText_GatewayErrorIncludesBody(t *testing.T) {
	cfg := &config.Config{WAGatewaySession: "pelada", WASendRate: 100}
	s, srv := newTestSender(cfg, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("session disconnected"))
	})
	defer srv.Close()

	err := s.SendText(context.Background(), "+5511900000001", "oi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "session disconnected")
}

func TestSendText_SerializesConcurrentSends(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
	)
	cfg := &config.Config{WAGatewaySession: "pelada", WASendRate: 1000}
	s, srv := newTestSender(cfg, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > maxSeen {
			maxSeen = inFlight
		}
		mu.Unlock()
		defer func() {
			mu.Lock()
			inFlight--
			mu.Unlock()
		}()
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.SendText(context.Background(), "+5511900000001", "oi")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen, "gateway never sees overlapping sends")
}

func TestSendText_CancelledContext(t *testing.T) {
	cfg := &config.Config{WAGatewaySession: "pelada", WASendRate: 100}
	s, srv := newTestSender(cfg, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.SendText(ctx, "+5511900000001", "oi")
	assert.Error(t, err)
}
