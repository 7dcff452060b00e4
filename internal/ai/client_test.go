package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func TestExtractIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Error("request did not ask for a JSON object response")
		}
		w.Write([]byte(chatCompletionBody(`{"intent":"get_team_standing","team1":"Benfica","season":"2024/2025"}`)))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL, "test-key", "gpt-4o-mini", false)
	intent, err := client.ExtractIntent(context.Background(), "Em que lugar ficou o Benfica?")
	if err != nil {
		t.Fatalf("ExtractIntent: %v", err)
	}
	if intent.Intent != IntentTeamStanding || intent.Team1 != "Benfica" {
		t.Errorf("intent = %+v", intent)
	}
}

func TestExtractIntentStripsCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletionBody("```json\n{\"intent\":\"get_match_result\",\"team1\":\"Porto\",\"team2\":\"Benfica\"}\n```")))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL, "test-key", "gpt-4o-mini", false)
	intent, err := client.ExtractIntent(context.Background(), "Quem ganhou Porto Benfica?")
	if err != nil {
		t.Fatalf("ExtractIntent: %v", err)
	}
	if intent.Intent != IntentMatchResult {
		t.Errorf("intent = %q, want %q", intent.Intent, IntentMatchResult)
	}
}

func TestExtractIntentUnparseableModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletionBody("I'm sorry, I can't produce JSON today.")))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL, "test-key", "gpt-4o-mini", false)
	intent, err := client.ExtractIntent(context.Background(), "pergunta")
	if err != nil {
		t.Fatalf("ExtractIntent: %v", err)
	}
	if intent.Intent != IntentUnknown {
		t.Errorf("intent = %q, want %q", intent.Intent, IntentUnknown)
	}
}

func TestExtractIntentHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL, "test-key", "gpt-4o-mini", false)
	if _, err := client.ExtractIntent(context.Background(), "pergunta"); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

func TestExtractIntentMissingAPIKey(t *testing.T) {
	client := NewClientWithURL("http://unused.test", "", "gpt-4o-mini", false)
	if _, err := client.ExtractIntent(context.Background(), "pergunta"); err == nil {
		t.Error("expected an error when no API key is configured")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "padded", in: "  {\"a\":1}  ", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
