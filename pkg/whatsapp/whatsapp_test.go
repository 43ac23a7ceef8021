package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, status int, reply string) (*httptest.Server, *textMessage) {
	t.Helper()
	var got textMessage

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestClient_SendText(t *testing.T) {
	srv, got := newGateway(t, http.StatusOK, `{"messages":[{"id":"wamid.42"}]}`)

	c := NewClient(context.Background(), Config{
		BaseURL:      srv.URL + "/v1/",
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/oauth/token",
		Sender:       "237600000000",
	})

	id, err := c.SendText(context.Background(), "+237 690 00 00 01", "Bonjour Awa")
	require.NoError(t, err)
	assert.Equal(t, "wamid.42", id)
	assert.Equal(t, "237690000001", got.To)
	assert.Equal(t, "237600000000", got.From)
	assert.Equal(t, "Bonjour Awa", got.Text.Body)
}

func TestClient_SendTextGatewayError(t *testing.T) {
	srv, _ := newGateway(t, http.StatusBadRequest, `{"error":{"message":"recipient not on WhatsApp"}}`)

	c := NewClient(context.Background(), Config{BaseURL: srv.URL + "/v1", TokenURL: srv.URL + "/oauth/token"})
	_, err := c.SendText(context.Background(), "+237690000001", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipient not on WhatsApp")
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(context.Background(), Config{})
	_, err := c.SendText(context.Background(), "+237690000001", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLink(t *testing.T) {
	link, err := Link("+237 690-00-00-01", "Reçu n° 1 & total")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/237690000001?text=Re%C3%A7u%20n%C2%B0%201%20%26%20total", link)

	_, err = Link("12", "x")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}
