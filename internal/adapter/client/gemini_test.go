package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-core/internal/domain/entity"
)

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-1.5-pro:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Tell me about a failure."}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGeminiClient(context.Background(), "gm-test", srv.URL, nil)
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), entity.TextRequest{Prompt: "Follow up.", Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "Tell me about a failure.", out)
}

func TestGeminiWithoutKeyIsFatal(t *testing.T) {
	g, err := NewGeminiClient(context.Background(), "", "", nil)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), entity.TextRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, entity.ErrMissingAPIKey)
	assert.True(t, entity.IsFatal(err))
}

func TestIsPermanentGeminiError(t *testing.T) {
	assert.True(t, isPermanentGeminiError(errors.New("Error 403, Message: API key not valid, Status: PERMISSION_DENIED")))
	assert.False(t, isPermanentGeminiError(errors.New("Error 503, Message: overloaded, Status: UNAVAILABLE")))
	assert.False(t, isPermanentGeminiError(errors.New("context deadline exceeded")))
}
