package entity

import "time"

// ProviderSpec binds one provider into a use case's fallback chain. Specs are
// loaded once at startup and never mutated afterwards.
type ProviderSpec struct {
	Name        string        `mapstructure:"name" validate:"required"`
	Priority    int           `mapstructure:"priority" validate:"gte=0"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `mapstructure:"max_tokens" validate:"gte=0"`
	MaxRetries  int           `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	BaseDelay   time.Duration `mapstructure:"base_delay" validate:"gte=0,lte=10s"`
	// Timeout bounds a single attempt. Zero leaves only the adapter's own
	// HTTP timeout in place.
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0,lte=60s"`
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeRetryable
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// AttemptOutcome is what the retry executor reports for one provider.
// Cause is nil on success.
type AttemptOutcome[R any] struct {
	Kind     OutcomeKind
	Payload  R
	Cause    error
	Attempts int
}

func (o AttemptOutcome[R]) OK() bool { return o.Kind == OutcomeSuccess }

// Provider names used in fallback chains.
const (
	ProviderOpenAI      = "openai"
	ProviderGemini      = "gemini"
	ProviderCohere      = "cohere"
	ProviderWhisper     = "whisper"
	ProviderAssemblyAI  = "assemblyai"
	ProviderRegexResume = "regex"
)
