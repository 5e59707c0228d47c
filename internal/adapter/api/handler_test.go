package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-core/internal/domain/entity"
	"interview-core/internal/logger"
)

type fakeCore struct {
	lastReq entity.GenerationRequest
	result  any
	err     error
	audio   []byte
}

func (f *fakeCore) Generate(_ context.Context, req entity.GenerationRequest) (any, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeCore) Transcribe(_ context.Context, audio []byte) (entity.Result[entity.TranscriptResult], error) {
	f.audio = audio
	if f.err != nil {
		return entity.Result[entity.TranscriptResult]{}, f.err
	}
	return entity.Result[entity.TranscriptResult]{
		RequestID: "tx-1",
		UseCase:   entity.UseCaseTranscription,
		Provider:  entity.ProviderWhisper,
		Value:     entity.TranscriptResult{Text: "hello"},
	}, nil
}

type fakeLimiter struct {
	mu      sync.Mutex
	allowed bool
	err     error
	counted []string
}

func (f *fakeLimiter) CheckLimit(_ context.Context, _ string, _ entity.UseCase) (bool, error) {
	return f.allowed, f.err
}

func (f *fakeLimiter) Increment(_ context.Context, userID string, feature entity.UseCase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counted = append(f.counted, userID+":"+string(feature))
	return nil
}

func (f *fakeLimiter) Counted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.counted...)
}

func newTestApp(core Core, limiter *fakeLimiter) *fiber.App {
	app := fiber.New()
	var h *GenerationHandler
	if limiter == nil {
		h = NewGenerationHandler(core, nil, logger.NewNop())
	} else {
		h = NewGenerationHandler(core, limiter, logger.NewNop())
	}
	SetupRouter(app, h, "test", "v0")
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeCore{}, nil)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateSuccess(t *testing.T) {
	core := &fakeCore{result: entity.Result[entity.FollowUp]{
		RequestID: "r1",
		UseCase:   entity.UseCaseFollowUp,
		Provider:  entity.ProviderOpenAI,
		Value:     entity.FollowUp{Question: "Why?"},
	}}
	limiter := &fakeLimiter{allowed: true}
	app := newTestApp(core, limiter)

	resp, body := postJSON(t, app, "/v1/generate/follow-up",
		`{"lastQuestion":"What is Go?","userAnswer":"A language."}`,
		map[string]string{userHeader: "u1"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, core.lastReq.ID, resp.Header.Get(requestIDHeader))
	assert.Equal(t, entity.UseCaseFollowUp, core.lastReq.UseCase)
	assert.Equal(t, "What is Go?", core.lastReq.Params["lastQuestion"])
	assert.Equal(t, "Why?", body["value"].(map[string]any)["question"])

	assert.Eventually(t, func() bool {
		return len(limiter.Counted()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"u1:follow-up"}, limiter.Counted())
}

func TestGenerateErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		leak   string
	}{
		{"validation", &entity.ValidationError{Field: "topic", Reason: "failed required"}, http.StatusBadRequest, ""},
		{"exhausted", &entity.ExhaustedError{
			UseCase:  entity.UseCaseFeedback,
			Failures: []entity.ProviderFailure{{Provider: "cohere", Err: errors.New("secret upstream detail")}},
		}, http.StatusBadGateway, "secret upstream detail"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&fakeCore{err: tc.err}, nil)
			resp, body := postJSON(t, app, "/v1/generate/feedback", `{}`, nil)

			assert.Equal(t, tc.status, resp.StatusCode)
			require.Contains(t, body, "error")
			if tc.leak != "" {
				assert.NotContains(t, body["error"], tc.leak)
			}
		})
	}
}

func TestGenerateRejectsUnknownUseCase(t *testing.T) {
	core := &fakeCore{}
	app := newTestApp(core, nil)

	resp, _ := postJSON(t, app, "/v1/generate/poetry", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, core.lastReq.ID)
}

func TestGenerateRateLimited(t *testing.T) {
	core := &fakeCore{}
	limiter := &fakeLimiter{allowed: false}
	app := newTestApp(core, limiter)

	resp, _ := postJSON(t, app, "/v1/generate/quiz", `{"topic":"Go"}`, map[string]string{userHeader: "u1"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Empty(t, core.lastReq.ID)

	resp, _ = postJSON(t, app, "/v1/generate/quiz", `{"topic":"Go"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateInvalidBody(t *testing.T) {
	app := newTestApp(&fakeCore{}, nil)
	resp, _ := postJSON(t, app, "/v1/generate/quiz", `{"topic":`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTranscribe(t *testing.T) {
	core := &fakeCore{}
	app := newTestApp(core, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", "answer.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tx-1", resp.Header.Get(requestIDHeader))
	assert.Equal(t, []byte("RIFF"), core.audio)
}

func TestTranscribeWithoutFile(t *testing.T) {
	app := newTestApp(&fakeCore{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/transcribe", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
