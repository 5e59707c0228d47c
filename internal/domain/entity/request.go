package entity

import (
	"maps"

	"github.com/google/uuid"
)

// UseCase tags a generation request with the feature it serves. Each use case
// owns its own fallback chain.
type UseCase string

const (
	UseCaseQuestions      UseCase = "questions"
	UseCaseQuiz           UseCase = "quiz"
	UseCaseStudyPlan      UseCase = "study-plan"
	UseCaseFeedback       UseCase = "feedback"
	UseCaseFollowUp       UseCase = "follow-up"
	UseCaseResume         UseCase = "resume"
	UseCaseResumeParse    UseCase = "resume-parse"
	UseCaseResumeRewrite  UseCase = "resume-rewrite"
	UseCaseJobDescription UseCase = "job-description"
	UseCaseTranscription  UseCase = "transcription"
)

// UseCases lists every known use case in a stable order.
var UseCases = []UseCase{
	UseCaseQuestions,
	UseCaseQuiz,
	UseCaseStudyPlan,
	UseCaseFeedback,
	UseCaseFollowUp,
	UseCaseResume,
	UseCaseResumeParse,
	UseCaseResumeRewrite,
	UseCaseJobDescription,
	UseCaseTranscription,
}

func (u UseCase) Valid() bool {
	for _, known := range UseCases {
		if u == known {
			return true
		}
	}
	return false
}

// ShapeKind is the structural form the extractor expects in a raw response.
type ShapeKind int

const (
	ShapeText ShapeKind = iota
	ShapeNumberedList
	ShapeJSONArray
	ShapeJSONObject
)

// NumericRange clamps the number found at Path (dot separated, arrays are
// traversed element-wise) into [Min, Max].
type NumericRange struct {
	Path string
	Min  float64
	Max  float64
}

// OutputShape describes what a provider response must look like to be accepted.
type OutputShape struct {
	Kind   ShapeKind
	// Schema is a JSON Schema document checked after repair.
	Schema string
	// Limit truncates numbered lists. Zero means no limit.
	Limit  int
	Ranges []NumericRange
}

// GenerationRequest is one inbound call into the core. Build it with
// NewGenerationRequest; the params map is copied so later caller mutation
// has no effect.
type GenerationRequest struct {
	ID      string
	UseCase UseCase
	Params  map[string]any
	Shape   OutputShape
}

func NewGenerationRequest(useCase UseCase, params map[string]any) GenerationRequest {
	return GenerationRequest{
		ID:      uuid.NewString(),
		UseCase: useCase,
		Params:  maps.Clone(params),
	}
}

// WithShape returns a copy of the request carrying the given output shape.
func (r GenerationRequest) WithShape(shape OutputShape) GenerationRequest {
	r.Params = maps.Clone(r.Params)
	r.Shape = shape
	return r
}

// TextRequest is the provider-agnostic envelope handed to a TextProvider.
type TextRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// Document is the user document the prompt was built around. Local
	// providers that do not call a model operate on it directly.
	Document    string
}
