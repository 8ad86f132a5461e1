// Package iam exchanges an IBM Cloud API key for a short-lived bearer token.
package iam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"scheme-rag/internal/config"
	"scheme-rag/internal/models"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenProvider requests a new token on every call. Nothing is cached.
type TokenProvider struct {
	cfg    *config.WatsonConfig
	client *http.Client
}

// NewTokenProvider returns a provider for cfg. A nil client gets a default
// one with cfg.TimeoutSecs as timeout.
func NewTokenProvider(cfg *config.WatsonConfig, client *http.Client) *TokenProvider {
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second}
	}
	return &TokenProvider{cfg: cfg, client: client}
}

// AcquireToken posts the api key to the identity endpoint and returns the
// access token. Every failure is an *models.AuthenticationError.
func (p *TokenProvider) AcquireToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("apikey", p.cfg.APIKey)
	form.Set("grant_type", config.DefaultGrantType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.IdentityURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &models.AuthenticationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &models.AuthenticationError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.AuthenticationError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Msg("IAM token request rejected")
		return "", &models.AuthenticationError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", &models.AuthenticationError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding token response: %w", err)}
	}
	if token.AccessToken == "" {
		return "", &models.AuthenticationError{StatusCode: resp.StatusCode, Body: "response has no access_token"}
	}

	log.Debug().Int("expires_in", token.ExpiresIn).Msg("Acquired IAM token")
	return token.AccessToken, nil
}
