package mailer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func newTestTransport(t *testing.T, handler http.HandlerFunc) Transport {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGmailTransport(zap.NewNop(), option.WithEndpoint(server.URL))
}

func TestGmailSend(t *testing.T) {
	var gotRaw string
	transport := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.Contains(r.URL.Path, "/users/me/messages/send"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload struct {
			Raw string `json:"raw"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		gotRaw = payload.Raw

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg-123"})
	})

	id, err := transport.Send(context.Background(), "ya29.token", &OutgoingMessage{
		To:      "jane@acme.com",
		Subject: "Hello",
		Body:    "Hi Jane",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-123", id)

	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(gotRaw)
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "To: jane@acme.com")
	assert.Contains(t, string(decoded), "Hi Jane")
}

func TestGmailSend_APIError(t *testing.T) {
	transport := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`, http.StatusUnauthorized)
	})

	_, err := transport.Send(context.Background(), "stale-token", &OutgoingMessage{
		To:      "jane@acme.com",
		Subject: "Hello",
		Body:    "Hi",
	})
	assert.ErrorContains(t, err, "failed to send email")
}

func TestGmailSend_MissingToken(t *testing.T) {
	transport := NewGmailTransport(zap.NewNop())

	_, err := transport.Send(context.Background(), "", &OutgoingMessage{To: "jane@acme.com"})
	assert.ErrorContains(t, err, "missing Google access token")
}

func TestGmailSend_MissingRecipient(t *testing.T) {
	transport := NewGmailTransport(zap.NewNop())

	_, err := transport.Send(context.Background(), "ya29.token", &OutgoingMessage{Subject: "s"})
	assert.ErrorContains(t, err, "missing recipient")
}
