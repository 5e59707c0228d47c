package api

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"interview-core/internal/domain/entity"
	"interview-core/internal/domain/repository"
	"interview-core/internal/logger"
)

const (
	userHeader      = "X-User-ID"
	requestIDHeader = "X-Request-ID"
	maxAudioBytes   = 25 << 20
)

// Core is the part of the generator the HTTP layer calls.
type Core interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (any, error)
	Transcribe(ctx context.Context, audio []byte) (entity.Result[entity.TranscriptResult], error)
}

type GenerationHandler struct {
	core    Core
	limiter repository.UsageLimiter // nil disables quotas
	log     *logger.Logger
}

func NewGenerationHandler(core Core, limiter repository.UsageLimiter, log *logger.Logger) *GenerationHandler {
	return &GenerationHandler{core: core, limiter: limiter, log: log}
}

func (h *GenerationHandler) HandleGenerate(c *fiber.Ctx) error {
	useCase := entity.UseCase(c.Params("useCase"))
	if !useCase.Valid() || useCase == entity.UseCaseTranscription {
		return h.fail(c, &entity.ValidationError{Field: "useCase", Reason: "unsupported use case " + string(useCase)})
	}

	params := map[string]any{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	userID := c.Get(userHeader)
	if err := h.checkQuota(c.UserContext(), userID, useCase); err != nil {
		return h.fail(c, err)
	}

	req := entity.NewGenerationRequest(useCase, params)
	c.Set(requestIDHeader, req.ID)

	res, err := h.core.Generate(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	h.recordUsage(userID, useCase)

	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *GenerationHandler) HandleTranscribe(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return h.fail(c, &entity.ValidationError{Field: "audio", Reason: "no audio uploaded"})
	}
	if fh.Size > maxAudioBytes {
		return h.fail(c, &entity.ValidationError{Field: "audio", Reason: "file too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer f.Close()
	audio, err := io.ReadAll(f)
	if err != nil {
		return h.fail(c, err)
	}

	userID := c.Get(userHeader)
	if err := h.checkQuota(c.UserContext(), userID, entity.UseCaseTranscription); err != nil {
		return h.fail(c, err)
	}

	res, err := h.core.Transcribe(c.UserContext(), audio)
	if err != nil {
		return h.fail(c, err)
	}
	h.recordUsage(userID, entity.UseCaseTranscription)

	c.Set(requestIDHeader, res.RequestID)
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *GenerationHandler) checkQuota(ctx context.Context, userID string, useCase entity.UseCase) error {
	if h.limiter == nil {
		return nil
	}
	if userID == "" {
		return &entity.ValidationError{Field: userHeader, Reason: "header is required"}
	}
	allowed, err := h.limiter.CheckLimit(ctx, userID, useCase)
	if err != nil {
		return err
	}
	if !allowed {
		return entity.ErrRateLimitExceeded
	}
	return nil
}

// recordUsage counts a served request off the request path; the request
// context may already be gone when the increment runs.
func (h *GenerationHandler) recordUsage(userID string, useCase entity.UseCase) {
	if h.limiter == nil || userID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.limiter.Increment(ctx, userID, useCase); err != nil {
			h.log.Warn("usage increment failed", "user_id", userID, "use_case", useCase, "error", err)
		}
	}()
}

// fail maps core errors to HTTP responses. Provider errors never reach
// the client.
func (h *GenerationHandler) fail(c *fiber.Ctx, err error) error {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error()})
	case errors.Is(err, entity.ErrRateLimitExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrGenerationFailed):
		h.log.Error("generation failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "generation failed, please try again later"})
	default:
		h.log.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal gateway error"})
	}
}
