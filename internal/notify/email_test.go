package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/config"
)

func TestHTTPEmailSenderPostsProviderPayload(t *testing.T) {
	var got emailRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender := NewEmailSender(config.EmailConfig{
		Endpoint: server.URL,
		APIKey:   "key-123",
		From:     "noreply@richhabits.example",
	}, zap.NewNop())

	ok, err := sender.Send(context.Background(), "casey@example.com", "Design ready", "plain body", "<p>html body</p>")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bearer key-123", auth)
	assert.Equal(t, "noreply@richhabits.example", got.From)
	assert.Equal(t, "casey@example.com", got.To)
	assert.Equal(t, "Design ready", got.Subject)
	assert.Equal(t, "plain body", got.Text)
	assert.Equal(t, "<p>html body</p>", got.HTML)
}

func TestHTTPEmailSenderProviderRejectionSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	sender := NewEmailSender(config.EmailConfig{Endpoint: server.URL}, zap.NewNop())

	ok, err := sender.Send(context.Background(), "casey@example.com", "subject", "text", "")

	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestEmailSenderWithoutEndpointIsNoop(t *testing.T) {
	sender := NewEmailSender(config.EmailConfig{}, zap.NewNop())

	ok, err := sender.Send(context.Background(), "casey@example.com", "subject", "text", "")

	require.NoError(t, err)
	assert.True(t, ok, "the noop sender reports success so markers stay consistent")
}
