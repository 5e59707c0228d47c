package usecase

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"interview-core/internal/domain/entity"
)

var errProviderNotConfigured = errors.New("provider is not configured")

// Step is one provider in a fallback chain. Call shapes the request for
// that provider and invokes it; a nil Call marks a provider named in the
// policy that has no adapter wired.
type Step[R any] struct {
	Spec entity.ProviderSpec
	Call func(ctx context.Context, spec entity.ProviderSpec) (R, error)
}

// Chain is the ordered provider list for one use case plus the extraction
// applied to each raw response. Degraded is nil for use cases that must
// fail rather than serve placeholder content.
type Chain[R, T any] struct {
	UseCase  entity.UseCase
	Steps    []Step[R]
	Extract  func(R) (T, error)
	Degraded func() T
}

// RunChain tries each step in priority order and returns the first result
// that both calls and extracts cleanly. Later steps are never invoked after
// a success. When every step fails the degraded responder answers, or an
// *entity.ExhaustedError lists each provider's last failure in order.
func RunChain[R, T any](ctx context.Context, x *RetryExecutor, requestID string, chain Chain[R, T]) (entity.Result[T], error) {
	steps := slices.Clone(chain.Steps)
	slices.SortStableFunc(steps, func(a, b Step[R]) int {
		return cmp.Compare(a.Spec.Priority, b.Spec.Priority)
	})

	log := x.log.With("use_case", chain.UseCase, "request_id", requestID)
	failures := make([]entity.ProviderFailure, 0, len(steps))

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			failures = append(failures, entity.ProviderFailure{Provider: step.Spec.Name, Err: err})
			continue
		}
		if step.Call == nil {
			log.Warn("skipping provider", "provider", step.Spec.Name, "error", errProviderNotConfigured)
			failures = append(failures, entity.ProviderFailure{Provider: step.Spec.Name, Err: errProviderNotConfigured})
			continue
		}

		spec := step.Spec
		outcome := Execute(ctx, x, spec, func(ctx context.Context) (R, error) {
			return step.Call(ctx, spec)
		})
		if !outcome.OK() {
			log.Warn("provider exhausted",
				"provider", spec.Name, "outcome", outcome.Kind.String(),
				"attempts", outcome.Attempts, "error", outcome.Cause)
			failures = append(failures, entity.ProviderFailure{Provider: spec.Name, Err: outcome.Cause})
			continue
		}

		value, err := chain.Extract(outcome.Payload)
		if err != nil {
			log.Warn("provider output rejected", "provider", spec.Name, "error", err)
			failures = append(failures, entity.ProviderFailure{Provider: spec.Name, Err: err})
			continue
		}

		log.Info("generation succeeded", "provider", spec.Name, "attempts", outcome.Attempts)
		return entity.Result[T]{
			RequestID: requestID,
			UseCase:   chain.UseCase,
			Provider:  spec.Name,
			Value:     value,
		}, nil
	}

	exhausted := &entity.ExhaustedError{UseCase: chain.UseCase, Failures: failures}
	if chain.Degraded == nil {
		log.Error("all providers exhausted", "error", exhausted)
		return entity.Result[T]{}, exhausted
	}

	log.Warn("all providers exhausted, serving degraded response", "error", exhausted)
	return entity.Result[T]{
		RequestID: requestID,
		UseCase:   chain.UseCase,
		Degraded:  true,
		Value:     chain.Degraded(),
	}, nil
}
