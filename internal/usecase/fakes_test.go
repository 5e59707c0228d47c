package usecase

import (
	"context"
	"sync"
	"time"

	"interview-core/internal/domain/entity"
	"interview-core/internal/logger"
)

type reply struct {
	text string
	err  error
}

// fakeProvider answers from a script; the last reply repeats.
type fakeProvider struct {
	name    string
	replies []reply

	mu    sync.Mutex
	calls int
	last  entity.TextRequest
}

func newFake(name string, replies ...reply) *fakeProvider {
	return &fakeProvider{name: name, replies: replies}
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, req entity.TextRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	f.calls++
	f.last = req
	return f.replies[i].text, f.replies[i].err
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeTranscriber struct {
	name  string
	res   entity.TranscriptResult
	err   error
	calls int
}

func (f *fakeTranscriber) Name() string { return f.name }

func (f *fakeTranscriber) Transcribe(context.Context, []byte) (entity.TranscriptResult, error) {
	f.calls++
	return f.res, f.err
}

var errUpstream = &entity.ProviderCallFailure{Provider: "fake", StatusCode: 503}

// newTestExecutor never sleeps and records the backoffs it would have used.
func newTestExecutor() (*RetryExecutor, *[]time.Duration) {
	var waits []time.Duration
	x := NewRetryExecutor(logger.NewNop())
	x.jitter = func(time.Duration) time.Duration { return 0 }
	x.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return x, &waits
}

func testSpec(name string, priority, retries int) entity.ProviderSpec {
	return entity.ProviderSpec{Name: name, Priority: priority, MaxRetries: retries, BaseDelay: 100 * time.Millisecond}
}
