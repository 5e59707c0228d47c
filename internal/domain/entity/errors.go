package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Standard domain errors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded: daily usage quota reached")
	ErrInvalidRequest    = errors.New("invalid request parameters")
	ErrProviderCall      = errors.New("provider call failed")
	ErrParse             = errors.New("provider output could not be parsed")
	ErrGenerationFailed  = errors.New("generation failed: all providers exhausted")
	ErrMissingAPIKey     = errors.New("missing api key")
)

// ValidationError reports a malformed or missing request parameter. It is
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidRequest }

// ProviderCallFailure is a network, timeout or non-2xx failure of a single
// provider attempt. Fatal failures will not succeed on retry.
type ProviderCallFailure struct {
	Provider   string
	StatusCode int
	Fatal      bool
	Cause      error
}

func (e *ProviderCallFailure) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(" call failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ProviderCallFailure) Unwrap() error { return e.Cause }

func (e *ProviderCallFailure) Is(target error) bool { return target == ErrProviderCall }

// Fatal marks err as not worth retrying against the same provider.
func Fatal(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pcf *ProviderCallFailure
	if errors.As(err, &pcf) {
		cp := *pcf
		cp.Fatal = true
		return &cp
	}
	return &ProviderCallFailure{Provider: provider, Fatal: true, Cause: err}
}

// IsFatal reports whether any ProviderCallFailure in err's chain is fatal.
func IsFatal(err error) bool {
	var pcf *ProviderCallFailure
	return errors.As(err, &pcf) && pcf.Fatal
}

// ParseError means a provider answered but its payload could not be
// extracted, repaired or validated.
type ParseError struct {
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return "parse error: " + e.Reason
	}
	return fmt.Sprintf("parse error: %s: %v", e.Reason, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ProviderFailure is the final cause recorded for one provider in a chain.
type ProviderFailure struct {
	Provider string
	Err      error
}

// ExhaustedError is raised when every provider in a use case's chain failed
// and no degraded responder exists.
type ExhaustedError struct {
	UseCase  UseCase
	Failures []ProviderFailure
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Provider, f.Err))
	}
	return fmt.Sprintf("%s: all providers exhausted [%s]", e.UseCase, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrGenerationFailed }
