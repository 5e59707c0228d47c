package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"interview-core/internal/adapter/parser"
	"interview-core/internal/domain/entity"
	"interview-core/internal/domain/repository"
	"interview-core/internal/logger"
)

// Generator is the entry point of the core. It owns one fallback chain per
// use case, built from read-only policies and the adapters registered at
// startup, and is safe for concurrent use.
type Generator struct {
	policies     map[entity.UseCase][]entity.ProviderSpec
	providers    map[string]repository.TextProvider
	transcribers map[string]repository.Transcriber
	exec         *RetryExecutor
	log          *logger.Logger
	validate     *validator.Validate
}

func NewGenerator(
	policies map[entity.UseCase][]entity.ProviderSpec,
	exec *RetryExecutor,
	log *logger.Logger,
	providers []repository.TextProvider,
	transcribers []repository.Transcriber,
) *Generator {
	g := &Generator{
		policies:     policies,
		providers:    make(map[string]repository.TextProvider, len(providers)),
		transcribers: make(map[string]repository.Transcriber, len(transcribers)),
		exec:         exec,
		log:          log,
		validate:     newInputValidator(),
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	for _, t := range transcribers {
		g.transcribers[t.Name()] = t
	}
	return g
}

func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates an input struct and reports the first problem as a
// *entity.ValidationError keyed by its JSON field name.
func (g *Generator) check(in any) error {
	err := g.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := "failed " + fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return &entity.ValidationError{Field: fe.Field(), Reason: reason}
	}
	return &entity.ValidationError{Reason: err.Error()}
}

var shapes = map[entity.UseCase]entity.OutputShape{
	entity.UseCaseQuiz:           parser.QuizShape,
	entity.UseCaseFeedback:       parser.FeedbackShape,
	entity.UseCaseStudyPlan:      parser.StudyPlanShape,
	entity.UseCaseFollowUp:       parser.FollowUpShape,
	entity.UseCaseJobDescription: parser.JobDescriptionShape,
	entity.UseCaseResumeParse:    parser.ResumeShape,
	entity.UseCaseResume:         parser.ResumeShape,
	entity.UseCaseResumeRewrite:  parser.RewriteShape,
}

func newRequest(useCase entity.UseCase) entity.GenerationRequest {
	return entity.NewGenerationRequest(useCase, nil).WithShape(shapes[useCase])
}

// child derives a request for a nested stage that shares the parent's id.
func child(parent entity.GenerationRequest, useCase entity.UseCase) entity.GenerationRequest {
	return entity.GenerationRequest{ID: parent.ID, UseCase: useCase, Shape: shapes[useCase]}
}

// textSteps turns a use case's policy into chain steps that send base,
// reshaped per provider, to the matching text adapter.
func (g *Generator) textSteps(useCase entity.UseCase, base entity.TextRequest) []Step[string] {
	specs := g.policies[useCase]
	steps := make([]Step[string], 0, len(specs))
	for _, spec := range specs {
		step := Step[string]{Spec: spec}
		if p, ok := g.providers[spec.Name]; ok {
			step.Call = func(ctx context.Context, spec entity.ProviderSpec) (string, error) {
				req := base
				req.Model = spec.Model
				req.Temperature = spec.Temperature
				req.MaxTokens = spec.MaxTokens
				return p.Generate(ctx, req)
			}
		}
		steps = append(steps, step)
	}
	return steps
}

func decodeWith[T any](shape entity.OutputShape) func(string) (T, error) {
	return func(raw string) (T, error) {
		return parser.Decode[T](raw, shape)
	}
}

func (g *Generator) GenerateQuestions(ctx context.Context, in entity.QuestionsInput) (entity.Result[[]string], error) {
	return g.questions(ctx, newRequest(entity.UseCaseQuestions), in)
}

func (g *Generator) questions(ctx context.Context, req entity.GenerationRequest, in entity.QuestionsInput) (entity.Result[[]string], error) {
	if err := g.check(in); err != nil {
		return entity.Result[[]string]{}, err
	}
	prompt, total, err := QuestionsPrompt(in)
	if err != nil {
		return entity.Result[[]string]{}, err
	}
	req = req.WithShape(parser.QuestionsShape(total))

	return RunChain(ctx, g.exec, req.ID, Chain[string, []string]{
		UseCase: req.UseCase,
		Steps:   g.textSteps(req.UseCase, entity.TextRequest{Prompt: prompt}),
		Extract: func(raw string) ([]string, error) {
			return parser.NumberedList(raw, req.Shape.Limit)
		},
	})
}

func (g *Generator) GenerateQuiz(ctx context.Context, in entity.QuizInput) (entity.Result[[]entity.QuizItem], error) {
	return g.quiz(ctx, newRequest(entity.UseCaseQuiz), in)
}

func (g *Generator) quiz(ctx context.Context, req entity.GenerationRequest, in entity.QuizInput) (entity.Result[[]entity.QuizItem], error) {
	if err := g.check(in); err != nil {
		return entity.Result[[]entity.QuizItem]{}, err
	}
	if in.NumQuestions == 0 {
		in.NumQuestions = defaultQuizSize
	}
	if in.Difficulty == "" {
		in.Difficulty = "medium"
	}
	if in.Language == "" {
		in.Language = "en"
	}
	prompt, err := QuizPrompt(in)
	if err != nil {
		return entity.Result[[]entity.QuizItem]{}, err
	}

	return RunChain(ctx, g.exec, req.ID, Chain[string, []entity.QuizItem]{
		UseCase: req.UseCase,
		Steps:   g.textSteps(req.UseCase, entity.TextRequest{Prompt: prompt}),
		Extract: func(raw string) ([]entity.QuizItem, error) {
			items, err := parser.Decode[[]entity.QuizItem](raw, req.Shape)
			if err != nil {
				return nil, err
			}
			if len(items) > in.NumQuestions {
				items = items[:in.NumQuestions]
			}
			return items, nil
		},
		Degraded: func() []entity.QuizItem { return StubQuiz(in.Topic, in.NumQuestions) },
	})
}

func (g *Generator) GenerateFollowUp(ctx context.Context, in entity.FollowUpInput) (entity.Result[entity.FollowUp], error) {
	return g.followUp(ctx, newRequest(entity.UseCaseFollowUp), in)
}

func (g *Generator) followUp(ctx context.Context, req entity.GenerationRequest, in entity.FollowUpInput) (entity.Result[entity.FollowUp], error) {
	if err := g.check(in); err != nil {
		return entity.Result[entity.FollowUp]{}, err
	}
	prompt, err := FollowUpPrompt(in)
	if err != nil {
		return entity.Result[entity.FollowUp]{}, err
	}

	return RunChain(ctx, g.exec, req.ID, Chain[string, entity.FollowUp]{
		UseCase: req.UseCase,
		Steps:   g.textSteps(req.UseCase, entity.TextRequest{Prompt: prompt}),
		Extract: func(raw string) (entity.FollowUp, error) {
			q, err := parser.PlainText(raw)
			return entity.FollowUp{Question: q}, err
		},
		Degraded: StubFollowUp,
	})
}

func (g *Generator) GenerateFeedback(ctx context.Context, in entity.FeedbackInput) (entity.Result[entity.Feedback], error) {
	return g.feedback(ctx, newRequest(entity.UseCaseFeedback), in)
}

func (g *Generator) feedback(ctx context.Context, req entity.GenerationRequest, in entity.FeedbackInput) (entity.Result[entity.Feedback], error) {
	if err := g.check(in); err != nil {
		return entity.Result[entity.Feedback]{}, err
	}
	system, user, err := FeedbackPrompt(in)
	if err != nil {
		return entity.Result[entity.Feedback]{}, err
	}

	return RunChain(ctx, g.exec, req.ID, Chain[string, entity.Feedback]{
		UseCase: req.UseCase,
		Steps:   g.textSteps(req.UseCase, entity.TextRequest{System: system, Prompt: user}),
		Extract: decodeWith[entity.Feedback](req.Shape),
	})
}

func (g *Generator) GenerateStudyPlan(ctx context.Context, in entity.StudyPlanInput) (entity.Result[[]entity.StudyWeek], error) {
	return g.studyPlan(ctx, newRequest(entity.UseCaseStudyPlan), in)
}

func (g *Generator) studyPlan(ctx context.Context, req entity.GenerationRequest, in entity.StudyPlanInput) (entity.Result[[]entity.StudyWeek], error) {
	if err := g.check(in); err != nil {
		return entity.Result[[]entity.StudyWeek]{}, err
	}
	prompt, err := StudyPlanPrompt(in)
	if err != nil {
		return entity.Result[[]entity.StudyWeek]{}, err
	}

	return RunChain(ctx, g.exec, req.ID, Chain[string, []entity.StudyWeek]{
		UseCase: req.UseCase,
		Steps:   g.textSteps(req.UseCase, entity.TextRequest{Prompt: prompt}),
		Extract: decodeWith[[]entity.StudyWeek](req.Shape),
	})
}

// Generate decodes req.Params into the use case's input and runs it. The
// returned value is an entity.Result of the use case's type. Caller-supplied
// shapes are replaced by the use case's own.
func (g *Generator) Generate(ctx context.Context, req entity.GenerationRequest) (any, error) {
	if !req.UseCase.Valid() {
		return nil, &entity.ValidationError{Field: "useCase", Reason: fmt.Sprintf("unknown use case %q", req.UseCase)}
	}
	req = req.WithShape(shapes[req.UseCase])
	g.log.Debug("generation requested", "use_case", req.UseCase, "request_id", req.ID)

	switch req.UseCase {
	case entity.UseCaseQuestions:
		var in entity.QuestionsInput
		if err := decodeParams(req.Params, &in); err != nil {
			return nil, err
		}
		return erase(g.questions(ctx, req, in))
	case entity.UseCaseQuiz:
		var in entity.QuizInput
		if err := decodeParams(req.Params, &in); err != nil {
			return nil, err
		}
		return erase(g.quiz(ctx, req, in))
	case entity.UseCaseFollowUp:
		var in entity.FollowUpInput
		if err := decodeParams(req.Params, &in); err != nil {
			return nil, err
		}
		return erase(g.followUp(ctx, req, in))
	case entity.UseCaseFeedback:
		var in entity.FeedbackInput
		if err := decodeParams(req.Params, &in); err != nil {
			return nil, err
		}
		return erase(g.feedback(ctx, req, in))
	case entity.UseCaseStudyPlan:
		var in entity.StudyPlanInput
		if err := decodeParams(req.Params, &in); err != nil {
			return nil, err
		}
		return erase(g.studyPlan(ctx, req, in))
	case entity.UseCaseJobDescription:
		var in entity.JobDescriptionInput
		if err := decodeParams(req.Params, &in); err != nil {
			return nil, err
		}
		return erase(g.jobDescription(ctx, req, in))
	case entity.UseCaseResumeParse:
		var in entity.ResumeParseInput
		if err := decodeParams(req.Params, &in); err != nil {
			return nil, err
		}
		return erase(g.parseResume(ctx, req, in))
	case entity.UseCaseResumeRewrite:
		var in entity.ResumeInput
		if err := decodeParams(req.Params, &in); err != nil {
			return nil, err
		}
		return erase(g.rewriteResume(ctx, req, in.JobDescription, in.ResumeText))
	case entity.UseCaseResume:
		var in entity.ResumeInput
		if err := decodeParams(req.Params, &in); err != nil {
			return nil, err
		}
		return erase(g.processResume(ctx, req, in))
	default:
		return nil, &entity.ValidationError{Field: "useCase", Reason: fmt.Sprintf("%s takes audio, not parameters", req.UseCase)}
	}
}

func erase[T any](res entity.Result[T], err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return res, nil
}

// decodeParams maps loosely typed request parameters onto an input struct
// using its JSON field names. Numeric strings are accepted for numbers.
func decodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build params decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return &entity.ValidationError{Reason: err.Error()}
	}
	return nil
}
