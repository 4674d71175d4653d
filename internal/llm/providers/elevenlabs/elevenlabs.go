// internal/llm/providers/elevenlabs/elevenlabs.go
package elevenlabs

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
	llm.Register("elevenlabs", func() llm.Provider {
		return &Provider{
			targetURL: "https://api.elevenlabs.io/v1/convai/conversation",
			agentID:   "default",
		}
	})
}

// Provider talks to the ElevenLabs Conversational AI endpoint through a
// CORS proxy. The proxy receives a description of the real request (target
// URL, headers, body) and replays it server-side.
type Provider struct {
	proxyURL    string
	accessToken string
	apiKey      string
	agentID     string
	targetURL   string
	client      *http.Client
}

func (p *Provider) Initialize(config map[string]string) error {
	proxyURL, exists := config["proxy_url"]
	if !exists || proxyURL == "" {
		return errors.New("elevenlabs proxy URL not provided")
	}
	apiKey, exists := config["api_key"]
	if !exists || apiKey == "" {
		return errors.New("elevenlabs API key not provided")
	}

	p.proxyURL = proxyURL
	p.apiKey = apiKey
	p.accessToken = config["access_token"]
	p.client = &http.Client{Timeout: 30 * time.Second}

	if agentID, exists := config["agent_id"]; exists && agentID != "" {
		p.agentID = agentID
	}
	if targetURL, exists := config["target_url"]; exists && targetURL != "" {
		p.targetURL = targetURL
	}
	return nil
}

func (p *Provider) Name() string {
	return "ElevenLabs"
}

// proxyRequest is the outer body sent to the proxy.
type proxyRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    agentRequest      `json:"body"`
}

type agentRequest struct {
	AgentID             string      `json:"agent_id"`
	Text                string      `json:"text"`
	ConversationConfig  agentConfig `json:"conversation_config"`
	ConversationHistory string      `json:"conversation_history,omitempty"`
	ConversationID      string      `json:"conversation_id,omitempty"`
}

type agentConfig struct {
	AgentPrompt string `json:"agent_prompt"`
	Language    string `json:"language"`
}

type agentResponse struct {
	Text           string `json:"text"`
	Message        string `json:"message"`
	AudioURL       string `json:"audio_url"`
	ConversationID string `json:"conversation_id"`
}

func (p *Provider) Converse(ctx context.Context, req llm.ConverseRequest) (*llm.ConverseResponse, error) {
	// The agent prompt re-states the language constraint; the model drifts
	// into English without it.
	prompt := req.SystemPrompt
	if prompt != "" {
		prompt += "\n\n"
	}
	prompt += fmt.Sprintf("CRITICAL: You MUST respond ONLY in %s. Never use English or any other language in your response. This is absolutely mandatory.", req.TargetLanguage)

	body := proxyRequest{
		URL:    p.targetURL,
		Method: http.MethodPost,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"xi-api-key":   p.apiKey,
		},
		Body: agentRequest{
			AgentID: p.agentID,
			Text:    req.Text,
			ConversationConfig: agentConfig{
				AgentPrompt: prompt,
				Language:    req.LanguageCode,
			},
			ConversationHistory: flattenHistory(req.History),
			ConversationID:      req.SessionRef,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal proxy request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.proxyURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.accessToken)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("elevenlabs call failed (%d): %s", resp.StatusCode, string(errBody))
	}

	var data agentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode elevenlabs response: %w", err)
	}

	text := data.Text
	if text == "" {
		text = data.Message
	}
	if text == "" {
		if data.AudioURL != "" {
			return nil, errors.New("elevenlabs returned audio only, text response needed")
		}
		return nil, errors.New("invalid elevenlabs response format")
	}

	return &llm.ConverseResponse{
		Text:         strings.TrimSpace(text),
		SessionRef:   data.ConversationID,
		ProviderName: p.Name(),
	}, nil
}

// flattenHistory renders the retained turns as the conversational-AI
// endpoint expects them: a plain "User:/Assistant:" transcript without the
// system turn.
func flattenHistory(history []llm.ChatMessage) string {
	var b strings.Builder
	for _, msg := range history {
		if msg.Role == "system" {
			continue
		}
		speaker := "Assistant"
		if msg.Role == "user" {
			speaker = "User"
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}
