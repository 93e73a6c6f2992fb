package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localebatch/internal/domain"
	"localebatch/internal/domain/entities"
)

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{"discord.com", "https://discord.com/api/webhooks/123456/abc-DEF_ghi", "123456", "abc-DEF_ghi", false},
		{"versioned api", "https://discord.com/api/v10/webhooks/42/tok", "42", "tok", false},
		{"trailing slash", "https://discordapp.com/api/webhooks/42/tok/", "42", "tok", false},
		{"missing token", "https://discord.com/api/webhooks/42", "", "", true},
		{"not a webhook", "https://example.com/hooks/42/tok", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, token, err := ParseWebhookURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestNotify(t *testing.T) {
	var gotPath string
	var gotBody discordgo.WebhookParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	orig := discordgo.EndpointWebhookToken
	discordgo.EndpointWebhookToken = func(wID, token string) string {
		return srv.URL + "/webhooks/" + wID + "/" + token
	}
	t.Cleanup(func() { discordgo.EndpointWebhookToken = orig })

	n, err := NewNotifier("https://discord.com/api/webhooks/42/tok")
	require.NoError(t, err)

	start := time.Now()
	err = n.Notify(context.Background(), &entities.Report{
		RunID:      "run",
		Job:        "description",
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
		Outcomes: []entities.Outcome{
			{Language: entities.Language{Code: "de"}, Status: domain.StatusSucceeded},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/webhooks/42/tok", gotPath)
	assert.Equal(t, webhookUsername, gotBody.Username)
	require.Len(t, gotBody.Embeds, 1)
	assert.Contains(t, gotBody.Embeds[0].Title, "description: 1/1")
}

func TestNewNotifierRejectsBadURL(t *testing.T) {
	_, err := NewNotifier("https://discord.com/channels/1/2")
	assert.Error(t, err)
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, NopNotifier{}.Notify(context.Background(), &entities.Report{}))
}
