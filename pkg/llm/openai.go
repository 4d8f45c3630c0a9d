package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	openaiBaseURL = "https://api.openai.com/v1"
	defaultGPT    = "gpt-4o"
)

// OpenAIProvider implements text and vision completion against the
// OpenAI Chat Completions API.
type OpenAIProvider struct {
	cfg    Config
	client *http.Client
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = defaultGPT
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = openaiBaseURL
	}
	return &OpenAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type openaiRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	Messages    []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type openaiContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openaiImageURL `json:"image_url,omitempty"`
}

type openaiImageURL struct {
	URL string `json:"url"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single-turn chat completion and returns the text.
func (p *OpenAIProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	msgs := []openaiMessage{}
	if system != "" {
		msgs = append(msgs, openaiMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, openaiMessage{Role: "user", Content: prompt})
	return p.send(ctx, msgs)
}

// AnalyzeImage sends a data-URL encoded PNG with a prompt.
func (p *OpenAIProvider) AnalyzeImage(ctx context.Context, system, prompt string, png []byte) (string, error) {
	msgs := []openaiMessage{}
	if system != "" {
		msgs = append(msgs, openaiMessage{Role: "system", Content: system})
	}
	parts := []openaiContentPart{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &openaiImageURL{
			URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		}},
	}
	msgs = append(msgs, openaiMessage{Role: "user", Content: parts})
	return p.send(ctx, msgs)
}

func (p *OpenAIProvider) send(ctx context.Context, msgs []openaiMessage) (string, error) {
	body, err := json.Marshal(openaiRequest{
		Model:       p.cfg.Model,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
		Messages:    msgs,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, err := doWithRetry(ctx, p.client, func() (*http.Request, error) {
		req, err := http.NewRequest("POST", p.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API error %d: %s", resp.StatusCode, truncate(string(data), 300))
	}

	var parsed openaiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
