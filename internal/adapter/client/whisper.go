package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"interview-core/internal/domain/entity"
)

const (
	whisperModel   = "whisper-1"
	whisperTimeout = 20 * time.Second
)

// WhisperClient implements repository.Transcriber using OpenAI's
// audio transcription endpoint. It returns text only, without metrics.
type WhisperClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewWhisperClient(apiKey, baseURL string, httpClient *http.Client) *WhisperClient {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if httpClient == nil {
		httpClient = newHTTPClient(whisperTimeout)
	}
	return &WhisperClient{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *WhisperClient) Name() string { return entity.ProviderWhisper }

func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte) (entity.TranscriptResult, error) {
	if err := requireKey(c.Name(), c.apiKey); err != nil {
		return entity.TranscriptResult{}, err
	}
	if len(audio) == 0 {
		return entity.TranscriptResult{}, entity.Fatal(c.Name(), fmt.Errorf("audio is empty"))
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return entity.TranscriptResult{}, entity.Fatal(c.Name(), err)
	}
	if _, err := part.Write(audio); err != nil {
		return entity.TranscriptResult{}, entity.Fatal(c.Name(), err)
	}
	if err := mw.WriteField("model", whisperModel); err != nil {
		return entity.TranscriptResult{}, entity.Fatal(c.Name(), err)
	}
	if err := mw.Close(); err != nil {
		return entity.TranscriptResult{}, entity.Fatal(c.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return entity.TranscriptResult{}, entity.Fatal(c.Name(), err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := do(ctx, c.httpClient, c.Name(), req)
	if err != nil {
		return entity.TranscriptResult{}, err
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return entity.TranscriptResult{}, &entity.ProviderCallFailure{Provider: c.Name(), Cause: fmt.Errorf("parse response: %w", err)}
	}
	return entity.TranscriptResult{Text: parsed.Text}, nil
}
