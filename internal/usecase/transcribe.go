package usecase

import (
	"context"

	"interview-core/internal/domain/entity"
)

// Transcribe converts recorded audio to text through the transcription
// chain. An empty transcript from a provider counts as success.
func (g *Generator) Transcribe(ctx context.Context, audio []byte) (entity.Result[entity.TranscriptResult], error) {
	if len(audio) == 0 {
		return entity.Result[entity.TranscriptResult]{}, &entity.ValidationError{Field: "audio", Reason: "no audio uploaded"}
	}
	req := newRequest(entity.UseCaseTranscription)

	specs := g.policies[req.UseCase]
	steps := make([]Step[entity.TranscriptResult], 0, len(specs))
	for _, spec := range specs {
		step := Step[entity.TranscriptResult]{Spec: spec}
		if t, ok := g.transcribers[spec.Name]; ok {
			step.Call = func(ctx context.Context, _ entity.ProviderSpec) (entity.TranscriptResult, error) {
				return t.Transcribe(ctx, audio)
			}
		}
		steps = append(steps, step)
	}

	return RunChain(ctx, g.exec, req.ID, Chain[entity.TranscriptResult, entity.TranscriptResult]{
		UseCase: req.UseCase,
		Steps:   steps,
		Extract: func(r entity.TranscriptResult) (entity.TranscriptResult, error) { return r, nil },
	})
}
