// Package ai wraps the language model used for intent extraction behind a
// provider-switching client.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const extractSystemPrompt = "Extract structured football intents. Always return JSON only."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client talks to the configured LLM provider.
type Client struct {
	provider     string
	apiKey       string
	baseURL      string
	model        string
	geminiClient *genai.Client
	httpClient   *http.Client
	debug        bool
	now          func() time.Time
}

// NewClient creates a client for the given provider. "openai" and
// "deepseek" use the OpenAI-compatible chat completions HTTP API;
// "gemini-api" uses the Gemini SDK. An unknown provider defaults to
// OpenAI for best compatibility.
func NewClient(ctx context.Context, provider, apiKey, model string, debug bool) (*Client, error) {
	client := &Client{
		provider:   provider,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		debug:      debug,
		now:        time.Now,
	}

	switch provider {
	case "gemini-api":
		geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		client.geminiClient = geminiClient
		if client.model == "" {
			client.model = "gemini-2.5-flash"
		}
	case "deepseek":
		client.baseURL = "https://api.deepseek.com/v1"
		if client.model == "" {
			client.model = "deepseek-chat"
		}
	case "openai":
		client.baseURL = "https://api.openai.com/v1"
		if client.model == "" {
			client.model = "gpt-4o-mini"
		}
	default:
		client.provider = "openai"
		client.baseURL = "https://api.openai.com/v1"
		if client.model == "" {
			client.model = "gpt-4o-mini"
		}
	}

	return client, nil
}

// NewClientWithURL creates an OpenAI-compatible client against a specific
// base URL. Used by tests and self-hosted gateways.
func NewClientWithURL(baseURL, apiKey, model string, debug bool) *Client {
	return &Client{
		provider:   "openai",
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		debug:      debug,
		now:        time.Now,
	}
}

// ExtractIntent asks the model for the structured intent of question.
// The model is instructed to return a JSON object; parse failures
// degrade to an unknown intent rather than an error so the caller can
// answer gracefully.
func (c *Client) ExtractIntent(ctx context.Context, question string) (Intent, error) {
	prompt := intentPrompt(question, c.now())

	var raw string
	var err error
	if c.provider == "gemini-api" {
		raw, err = c.completeGemini(ctx, prompt)
	} else {
		raw, err = c.completeOpenAI(ctx, prompt)
	}
	if err != nil {
		return Intent{}, err
	}

	if c.debug {
		fmt.Printf("[ai] intent raw: %s\n", raw)
	}
	return ParseIntent([]byte(stripCodeFence(raw))), nil
}

func (c *Client) completeOpenAI(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%s API key not configured", c.provider)
	}

	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: extractSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices from %s", c.provider)
	}
	return response.Choices[0].Message.Content, nil
}

func (c *Client) completeGemini(ctx context.Context, prompt string) (string, error) {
	if c.geminiClient == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	content := genai.NewContentFromText(extractSystemPrompt+"\n\n"+prompt, genai.RoleUser)
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	resp, err := c.geminiClient.Models.GenerateContent(ctx, c.model, []*genai.Content{content}, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			result.WriteString(part.Text)
		}
	}
	return result.String(), nil
}

// stripCodeFence removes a surrounding ```json fence if the model ignored
// the JSON-only instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
