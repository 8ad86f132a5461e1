package llmservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"scheme-rag/internal/config"
	"scheme-rag/internal/models"
)

// TokenSource hands out a bearer token for a single request.
type TokenSource interface {
	AcquireToken(ctx context.Context) (string, error)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages         []message `json:"messages"`
	ProjectID        string    `json:"project_id"`
	ModelID          string    `json:"model_id"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	MaxTokens        int       `json:"max_tokens"`
	PresencePenalty  float64   `json:"presence_penalty"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p"`
}

// Client calls the watsonx.ai text chat endpoint.
type Client struct {
	cfg    *config.WatsonConfig
	gen    config.GenerationConfig
	tokens TokenSource
	client *http.Client
}

// NewClient returns a chat client. A nil client gets a default one with
// cfg.TimeoutSecs as timeout.
func NewClient(cfg *config.WatsonConfig, gen config.GenerationConfig, tokens TokenSource, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second}
	}
	return &Client{cfg: cfg, gen: gen, tokens: tokens, client: client}
}

func (c *Client) newRequest(prompt string) chatRequest {
	topP := 1.0
	if c.gen.TopP != nil {
		topP = *c.gen.TopP
	}
	maxTokens := c.gen.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}
	return chatRequest{
		Messages: []message{
			{Role: "system", Content: models.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		ProjectID:        c.cfg.ProjectID,
		ModelID:          c.cfg.ModelID,
		FrequencyPenalty: c.gen.FrequencyPenalty,
		MaxTokens:        maxTokens,
		PresencePenalty:  c.gen.PresencePenalty,
		Temperature:      c.gen.Temperature,
		TopP:             topP,
	}
}

// Ask sends prompt as the user message and returns the generated text. A
// fresh token is requested first; if that fails the chat endpoint is not
// called.
func (c *Client) Ask(ctx context.Context, prompt string) (models.Answer, error) {
	token, err := c.tokens.AcquireToken(ctx)
	if err != nil {
		return models.Answer{}, err
	}

	jsonData, err := json.Marshal(c.newRequest(prompt))
	if err != nil {
		return models.Answer{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ChatURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return models.Answer{}, &models.RemoteAPIError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return models.Answer{}, &models.RemoteAPIError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Answer{}, &models.RemoteAPIError{StatusCode: resp.StatusCode, Err: err}
	}
	log.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("Chat completion returned")

	if resp.StatusCode != http.StatusOK {
		return models.Answer{}, &models.RemoteAPIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return ParseAnswer(body)
}

// ParseAnswer extracts results[0].generated_text. When the payload is valid
// JSON of any other shape the body is returned unchanged, apart from
// surrounding whitespace, as a fallback answer instead of an error.
func ParseAnswer(body []byte) (models.Answer, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return models.Answer{}, &models.RemoteAPIError{
			StatusCode: http.StatusOK,
			Err:        fmt.Errorf("decoding chat response: %w", err),
		}
	}

	if text, ok := generatedText(data); ok {
		return models.Answer{Text: text, Source: models.AnswerParsed}, nil
	}

	log.Warn().Msg("Chat response has no results[0].generated_text, returning raw payload")
	return models.Answer{Text: strings.TrimSpace(string(body)), Source: models.AnswerRawFallback}, nil
}

func generatedText(data any) (string, bool) {
	root, ok := data.(map[string]any)
	if !ok {
		return "", false
	}
	results, ok := root["results"].([]any)
	if !ok || len(results) == 0 {
		return "", false
	}
	first, ok := results[0].(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := first["generated_text"].(string)
	return text, ok
}
