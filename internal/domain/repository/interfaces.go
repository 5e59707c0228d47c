package repository

import (
	"context"

	"interview-core/internal/domain/entity"
)

// TextProvider is a chat-style generation backend. Implementations translate
// the uniform request into their own envelope and return the raw text.
type TextProvider interface {
	Name() string
	Generate(ctx context.Context, req entity.TextRequest) (string, error)
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte) (entity.TranscriptResult, error)
}

// UsageLimiter enforces per-user daily quotas before the core is invoked.
type UsageLimiter interface {
	CheckLimit(ctx context.Context, userID string, feature entity.UseCase) (bool, error)
	Increment(ctx context.Context, userID string, feature entity.UseCase) error
}
