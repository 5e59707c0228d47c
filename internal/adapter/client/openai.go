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
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-3.5-turbo"
	openAITimeout        = 20 * time.Second
)

// OpenAIClient implements repository.TextProvider for the Chat Completions API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if httpClient == nil {
		httpClient = newHTTPClient(openAITimeout)
	}
	return &OpenAIClient{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *OpenAIClient) Name() string { return entity.ProviderOpenAI }

func (c *OpenAIClient) Generate(ctx context.Context, req entity.TextRequest) (string, error) {
	if err := requireKey(c.Name(), c.apiKey); err != nil {
		return "", err
	}
	if err := requirePrompt(c.Name(), req.Prompt); err != nil {
		return "", err
	}
	if req.Model == "" {
		req.Model = defaultOpenAIModel
	}

	hReq, err := newRequest(ctx, c.Name(), http.MethodPost, c.baseURL+"/v1/chat/completions")
	if err != nil {
		return "", err
	}
	hReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	messages := make([]map[string]string, 0, 2)
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	payload := map[string]any{
		"model":       req.Model,
		"messages":    messages,
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}

	body, err := doJSON(ctx, c.httpClient, c.Name(), hReq, payload)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &entity.ProviderCallFailure{Provider: c.Name(), Cause: fmt.Errorf("parse response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &entity.ProviderCallFailure{Provider: c.Name(), Cause: fmt.Errorf("response has no choices")}
	}
	return parsed.Choices[0].Message.Content, nil
}
