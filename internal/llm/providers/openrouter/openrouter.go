// internal/llm/providers/openrouter/openrouter.go
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lingualife/lingualife/internal/llm"
)

func init() {
	llm.Register("openrouter", func() llm.Provider {
		return &Provider{
			baseURL: "https://openrouter.ai/api/v1",
		}
	})
}

// Provider implements the conversation contract over the OpenRouter
// chat-completions API.
type Provider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	defaultModel string
	httpReferer  string
	appName      string
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey, exists := config["api_key"]
	if !exists || apiKey == "" {
		return errors.New("openrouter API key not provided")
	}

	p.apiKey = apiKey
	p.client = &http.Client{Timeout: 30 * time.Second}

	if model, exists := config["default_model"]; exists && model != "" {
		p.defaultModel = model
	} else {
		p.defaultModel = "google/gemma-3-27b-it:free"
	}
	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = baseURL
	}
	if appName, exists := config["app_name"]; exists {
		p.appName = appName
	} else {
		p.appName = "LinguaLife Conversation Practice"
	}
	if httpReferer, exists := config["http_referer"]; exists {
		p.httpReferer = httpReferer
	} else {
		p.httpReferer = "https://lingualife.example.com"
	}
	return nil
}

func (p *Provider) Name() string {
	return "OpenRouter"
}

func (p *Provider) Converse(ctx context.Context, req llm.ConverseRequest) (*llm.ConverseResponse, error) {
	messages := make([]map[string]string, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, map[string]string{
			"role": "system", "content": req.SystemPrompt,
		})
	}
	for _, msg := range req.History {
		if msg.Role == "system" {
			continue
		}
		messages = append(messages, map[string]string{
			"role": msg.Role, "content": msg.Content,
		})
	}
	messages = append(messages, map[string]string{
		"role": "user", "content": req.Text,
	})

	requestBody := map[string]interface{}{
		"model":       p.defaultModel,
		"messages":    messages,
		"temperature": 0.7,
	}

	payload, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("HTTP-Referer", p.httpReferer)
	httpReq.Header.Set("X-Title", p.appName)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openrouter call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("openrouter call failed (%d): %s", resp.StatusCode, string(errBody))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Model string `json:"model"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return nil, errors.New("openrouter returned no choices")
	}

	return &llm.ConverseResponse{
		Text:         strings.TrimSpace(response.Choices[0].Message.Content),
		ModelName:    response.Model,
		ProviderName: p.Name(),
	}, nil
}
