// Package reasoner implements the planner's StepReasoner contract on top of
// an OpenAI-compatible chat-completions API. It is strictly best effort:
// every transport, status or parse problem comes back as an error the
// controller treats as "no action".
package reasoner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/vivi-ai/vivi-planner/config"
	"github.com/vivi-ai/vivi-planner/internal/planner"
)

// message represents a message in a conversation
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a request to the chat-completions API
type request struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a response from the chat-completions API
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAI is a StepReasoner backed by an OpenAI-compatible endpoint.
type OpenAI struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *log.Logger
}

// NewOpenAI creates a reasoner from config. It fails when no API key is
// configured so callers can fall back to the deterministic pipeline.
func NewOpenAI(cfg config.LLMConfig) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm.api_key not configured")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAI{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       cfg.CompletionModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      log.New(log.Writer(), "[REASONER] ", log.LstdFlags),
	}, nil
}

// Decide asks the model for the next controller action.
func (o *OpenAI) Decide(ctx context.Context, prompt planner.DecisionPrompt) (planner.Decision, error) {
	content, err := o.sendRequest(ctx, []message{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: prompt.State},
	})
	if err != nil {
		return planner.Decision{}, err
	}

	jsonStr := extractJSON(content)
	if jsonStr == "" {
		return planner.Decision{}, fmt.Errorf("no JSON found in response")
	}
	var decision planner.Decision
	if err := json.Unmarshal([]byte(jsonStr), &decision); err != nil {
		return planner.Decision{}, fmt.Errorf("failed to parse decision: %w", err)
	}
	return decision, nil
}

// sendRequest sends a chat-completions request and returns the first choice.
func (o *OpenAI) sendRequest(ctx context.Context, messages []message) (string, error) {
	requestBody := request{
		Model:       o.model,
		Messages:    messages,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return apiResp.Choices[0].Message.Content, nil
}

// extractJSON pulls the first balanced JSON object out of model output that
// may be wrapped in prose or code fences.
func extractJSON(s string) string {
	start := -1
	depth := 0
	for i, ch := range s {
		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			if depth > 0 {
				depth--
			}
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
