package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-core/internal/domain/entity"
)

func TestWhisperTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, whisperModel, r.FormValue("model"))
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		assert.Equal(t, []byte("RIFF"), b)

		_, _ = w.Write([]byte(`{"text":"hello there"}`))
	}))
	defer srv.Close()

	res, err := NewWhisperClient("sk-test", srv.URL, nil).Transcribe(context.Background(), []byte("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, "hello there", res.Text)
	assert.Nil(t, res.Metrics)
}

func TestWhisperEmptyAudioIsFatal(t *testing.T) {
	_, err := NewWhisperClient("sk-test", "http://127.0.0.1:1", nil).Transcribe(context.Background(), nil)
	assert.True(t, entity.IsFatal(err))
}

func assemblyServer(t *testing.T, pendingPolls int32, finalStatus string) (*httptest.Server, *int32) {
	t.Helper()
	var polls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "aai-test", r.Header.Get("authorization"))
		_, _ = w.Write([]byte(`{"upload_url":"https://cdn.example/audio"}`))
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"tx1","status":"queued"}`))
	})
	mux.HandleFunc("/v2/transcript/tx1", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&polls, 1)
		if n <= pendingPolls {
			_, _ = w.Write([]byte(`{"id":"tx1","status":"processing"}`))
			return
		}
		switch finalStatus {
		case "completed":
			_, _ = w.Write([]byte(`{"id":"tx1","status":"completed","text":"um I like Go","audio_duration":2,
				"words":[{"text":"um","confidence":0.5},{"text":"I","confidence":1},{"text":"like","confidence":0.9},{"text":"Go","confidence":1}]}`))
		case "error":
			_, _ = w.Write([]byte(`{"id":"tx1","status":"error","error":"bad audio"}`))
		default:
			_, _ = w.Write([]byte(`{"id":"tx1","status":"processing"}`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &polls
}

func fastAssembly(url string) *AssemblyAIClient {
	c := NewAssemblyAIClient("aai-test", url)
	c.pollDelay = func(int) time.Duration { return time.Millisecond }
	return c
}

func TestAssemblyAITranscribeWithMetrics(t *testing.T) {
	srv, polls := assemblyServer(t, 2, "completed")

	res, err := fastAssembly(srv.URL).Transcribe(context.Background(), []byte("audio"))
	require.NoError(t, err)
	assert.Equal(t, "um I like Go", res.Text)
	require.NotNil(t, res.Metrics)
	assert.Equal(t, 2, res.Metrics.FillerWordCount)
	assert.Equal(t, 0.85, res.Metrics.AverageWordConfidence)
	assert.Equal(t, 2.0, res.Metrics.SpeakingRate)
	assert.EqualValues(t, 3, atomic.LoadInt32(polls))
}

func TestAssemblyAIJobError(t *testing.T) {
	srv, _ := assemblyServer(t, 0, "error")

	_, err := fastAssembly(srv.URL).Transcribe(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.True(t, entity.IsFatal(err))
	assert.Contains(t, err.Error(), "bad audio")
}

func TestAssemblyAIPollTimeout(t *testing.T) {
	srv, polls := assemblyServer(t, 100, "processing")

	_, err := fastAssembly(srv.URL).Transcribe(context.Background(), []byte("audio"))
	assert.ErrorIs(t, err, ErrTranscriptionTimeout)
	assert.EqualValues(t, assemblyPollAttempts, atomic.LoadInt32(polls))
}
