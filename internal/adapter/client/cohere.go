package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"interview-core/internal/domain/entity"
)

const (
	defaultCohereBaseURL = "https://api.cohere.ai"
	defaultCohereModel   = "command-r-plus"
	cohereTimeout        = 20 * time.Second
)

// CohereClient implements repository.TextProvider for Cohere's chat endpoint.
type CohereClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewCohereClient(apiKey, baseURL string, httpClient *http.Client) *CohereClient {
	if baseURL == "" {
		baseURL = defaultCohereBaseURL
	}
	if httpClient == nil {
		httpClient = newHTTPClient(cohereTimeout)
	}
	return &CohereClient{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *CohereClient) Name() string { return entity.ProviderCohere }

func (c *CohereClient) Generate(ctx context.Context, req entity.TextRequest) (string, error) {
	if err := requireKey(c.Name(), c.apiKey); err != nil {
		return "", err
	}
	if err := requirePrompt(c.Name(), req.Prompt); err != nil {
		return "", err
	}
	if req.Model == "" {
		req.Model = defaultCohereModel
	}

	hReq, err := newRequest(ctx, c.Name(), http.MethodPost, c.baseURL+"/v1/chat")
	if err != nil {
		return "", err
	}
	hReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	payload := map[string]any{
		"model":        req.Model,
		"message":      req.Prompt,
		"temperature":  req.Temperature,
		"chat_history": []any{},
	}
	if req.System != "" {
		payload["preamble"] = req.System
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}

	body, err := doJSON(ctx, c.httpClient, c.Name(), hReq, payload)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Text        string `json:"text"`
		Generations []struct {
			Text string `json:"text"`
		} `json:"generations"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &entity.ProviderCallFailure{Provider: c.Name(), Cause: fmt.Errorf("parse response: %w", err)}
	}
	if parsed.Text == "" && len(parsed.Generations) > 0 {
		return parsed.Generations[0].Text, nil
	}
	return parsed.Text, nil
}
