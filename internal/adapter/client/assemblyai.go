package client

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

	"interview-core/internal/adapter/parser"
	"interview-core/internal/domain/entity"
)

const (
	defaultAssemblyAIBaseURL = "https://api.assemblyai.com"
	assemblyUploadTimeout    = 15 * time.Second
	assemblyJobTimeout       = 10 * time.Second
	assemblyPollAttempts     = 10
)

// ErrTranscriptionTimeout is reported when a transcript job is still
// running after the last poll.
var ErrTranscriptionTimeout = errors.New("transcription did not complete in time")

// AssemblyAIClient implements repository.Transcriber with the
// upload, submit and poll workflow. Completed jobs carry speech metrics.
type AssemblyAIClient struct {
	apiKey       string
	baseURL      string
	uploadClient *http.Client
	jobClient    *http.Client

	pollAttempts int
	// pollDelay returns how long to wait after the n-th unfinished poll.
	pollDelay func(n int) time.Duration
}

func NewAssemblyAIClient(apiKey, baseURL string) *AssemblyAIClient {
	if baseURL == "" {
		baseURL = defaultAssemblyAIBaseURL
	}
	return &AssemblyAIClient{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		uploadClient: newHTTPClient(assemblyUploadTimeout),
		jobClient:    newHTTPClient(assemblyJobTimeout),
		pollAttempts: assemblyPollAttempts,
		pollDelay: func(n int) time.Duration {
			return 3*time.Second + time.Duration(n)*time.Second
		},
	}
}

func (c *AssemblyAIClient) Name() string { return entity.ProviderAssemblyAI }

type assemblyTranscript struct {
	ID            string        `json:"id"`
	Status        string        `json:"status"`
	Text          string        `json:"text"`
	Error         string        `json:"error"`
	AudioDuration float64       `json:"audio_duration"`
	Words         []parser.Word `json:"words"`
}

func (c *AssemblyAIClient) Transcribe(ctx context.Context, audio []byte) (entity.TranscriptResult, error) {
	if err := requireKey(c.Name(), c.apiKey); err != nil {
		return entity.TranscriptResult{}, err
	}
	if len(audio) == 0 {
		return entity.TranscriptResult{}, entity.Fatal(c.Name(), fmt.Errorf("audio is empty"))
	}

	uploadURL, err := c.upload(ctx, audio)
	if err != nil {
		return entity.TranscriptResult{}, err
	}
	id, err := c.submit(ctx, uploadURL)
	if err != nil {
		return entity.TranscriptResult{}, err
	}

	for n := 1; n <= c.pollAttempts; n++ {
		t, err := c.poll(ctx, id)
		if err != nil {
			return entity.TranscriptResult{}, err
		}
		switch t.Status {
		case "completed":
			return entity.TranscriptResult{
				Text:    t.Text,
				Metrics: parser.SpeechMetrics(t.Words, t.AudioDuration),
			}, nil
		case "error", "failed":
			return entity.TranscriptResult{}, entity.Fatal(c.Name(), fmt.Errorf("transcript %s failed: %s", id, t.Error))
		}
		if n == c.pollAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return entity.TranscriptResult{}, ctx.Err()
		case <-time.After(c.pollDelay(n)):
		}
	}
	return entity.TranscriptResult{}, &entity.ProviderCallFailure{Provider: c.Name(), Cause: ErrTranscriptionTimeout}
}

func (c *AssemblyAIClient) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := newRequest(ctx, c.Name(), http.MethodPost, c.baseURL+"/v2/upload")
	if err != nil {
		return "", err
	}
	req.Body = io.NopCloser(bytes.NewReader(audio))
	req.ContentLength = int64(len(audio))
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	body, err := do(ctx, c.uploadClient, c.Name(), req)
	if err != nil {
		return "", err
	}
	var parsed struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.UploadURL == "" {
		return "", &entity.ProviderCallFailure{Provider: c.Name(), Cause: fmt.Errorf("upload returned no url")}
	}
	return parsed.UploadURL, nil
}

func (c *AssemblyAIClient) submit(ctx context.Context, audioURL string) (string, error) {
	req, err := newRequest(ctx, c.Name(), http.MethodPost, c.baseURL+"/v2/transcript")
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.apiKey)

	body, err := doJSON(ctx, c.jobClient, c.Name(), req, map[string]any{
		"audio_url":      audioURL,
		"disfluencies":   true,
		"speaker_labels": false,
		"language_code":  "en_us",
		"punctuate":      true,
		"format_text":    true,
	})
	if err != nil {
		return "", err
	}
	var t assemblyTranscript
	if err := json.Unmarshal(body, &t); err != nil || t.ID == "" {
		return "", &entity.ProviderCallFailure{Provider: c.Name(), Cause: fmt.Errorf("submit returned no transcript id")}
	}
	return t.ID, nil
}

func (c *AssemblyAIClient) poll(ctx context.Context, id string) (assemblyTranscript, error) {
	req, err := newRequest(ctx, c.Name(), http.MethodGet, c.baseURL+"/v2/transcript/"+id)
	if err != nil {
		return assemblyTranscript{}, err
	}
	req.Header.Set("authorization", c.apiKey)

	body, err := do(ctx, c.jobClient, c.Name(), req)
	if err != nil {
		return assemblyTranscript{}, err
	}
	var t assemblyTranscript
	if err := json.Unmarshal(body, &t); err != nil {
		return assemblyTranscript{}, &entity.ProviderCallFailure{Provider: c.Name(), Cause: fmt.Errorf("parse transcript: %w", err)}
	}
	return t, nil
}
