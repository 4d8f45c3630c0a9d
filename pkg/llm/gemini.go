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
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	defaultGemini      = "gemini-2.0-flash"
	defaultGeminiImage = "gemini-2.5-flash-image-preview"
)

// GeminiProvider implements text completion and image generation
// against the Google Generative Language API.
type GeminiProvider struct {
	cfg        Config
	imageModel string
	client     *http.Client
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(cfg Config) *GeminiProvider {
	imageModel := defaultGeminiImage
	if cfg.Model == "" {
		cfg.Model = defaultGemini
	} else {
		imageModel = cfg.Model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiBaseURL
	}
	return &GeminiProvider{
		cfg:        cfg,
		imageModel: imageModel,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

type geminiRequest struct {
	Contents          []geminiContent  `json:"contents"`
	SystemInstruction *geminiContent   `json:"system_instruction,omitempty"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenConfig struct {
	MaxOutputTokens    int      `json:"maxOutputTokens,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single-turn generateContent request.
func (p *GeminiProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenConfig{MaxOutputTokens: p.cfg.MaxTokens},
	}
	if system != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	parsed, err := p.send(ctx, p.cfg.Model, req)
	if err != nil {
		return "", err
	}
	for _, cand := range parsed.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("gemini response contained no text content")
}

// GenerateImage requests an image and returns its raw bytes.
func (p *GeminiProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}
	parsed, err := p.send(ctx, p.imageModel, req)
	if err != nil {
		return nil, err
	}
	for _, cand := range parsed.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("decode image data: %w", err)
				}
				return data, nil
			}
		}
	}
	return nil, fmt.Errorf("gemini response contained no image data")
}

func (p *GeminiProvider) send(ctx context.Context, model string, reqBody geminiRequest) (*geminiResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", p.cfg.BaseURL, model)

	resp, err := doWithRetry(ctx, p.client, func() (*http.Request, error) {
		req, err := http.NewRequest("POST", url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", p.cfg.APIKey)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error %d: %s", resp.StatusCode, truncate(string(data), 300))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("gemini API error: %s", parsed.Error.Message)
	}
	return &parsed, nil
}
