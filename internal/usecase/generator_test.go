package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-core/internal/adapter/client"
	"interview-core/internal/config"
	"interview-core/internal/domain/entity"
	"interview-core/internal/domain/repository"
	"interview-core/internal/logger"
)

func newTestGenerator(providers []repository.TextProvider, transcribers ...repository.Transcriber) *Generator {
	x, _ := newTestExecutor()
	return NewGenerator(config.DefaultPolicies(), x, logger.NewNop(), providers, transcribers)
}

const feedbackReply = `Here you go: {"strengths":"clear","improvements":"depth","overall":"good","score":14,
"soft_skills":{"confidence":"high","clarity":"high","filler_words":"few","tone":"calm","pace":"even"}}`

func validFeedback() entity.FeedbackInput {
	return entity.FeedbackInput{
		Question: "Explain goroutines.",
		Answer:   "They are lightweight threads managed by the Go runtime.",
		JobRole:  "Backend Engineer",
	}
}

func TestGenerateQuizServesStubWhenAllProvidersFail(t *testing.T) {
	openai := newFake(entity.ProviderOpenAI, reply{err: errUpstream})
	gemini := newFake(entity.ProviderGemini, reply{text: "no quiz today"})
	cohere := newFake(entity.ProviderCohere, reply{err: entity.Fatal(entity.ProviderCohere, entity.ErrMissingAPIKey)})
	g := newTestGenerator([]repository.TextProvider{openai, gemini, cohere})

	res, err := g.GenerateQuiz(context.Background(), entity.QuizInput{Topic: "Docker", NumQuestions: 4})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	require.Len(t, res.Value, 4)
	assert.Equal(t, "Stub Q1: What is Docker?", res.Value[0].Question)

	assert.Equal(t, 3, openai.Calls())
	assert.Equal(t, 1, gemini.Calls())
	assert.Equal(t, 1, cohere.Calls())
}

func TestGenerateQuizTruncatesAndUsesPolicyModel(t *testing.T) {
	two := `[` + validQuiz[1:len(validQuiz)-1] + `,` + validQuiz[1:len(validQuiz)-1] + `]`
	openai := newFake(entity.ProviderOpenAI, reply{text: two})
	g := newTestGenerator([]repository.TextProvider{openai})

	res, err := g.GenerateQuiz(context.Background(), entity.QuizInput{Topic: "Go", NumQuestions: 1})
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Len(t, res.Value, 1)
	assert.Equal(t, "gpt-4o-mini", openai.last.Model)
	assert.Contains(t, openai.last.Prompt, "(difficulty: medium) in en")
}

func TestGenerateFeedbackExhaustedHasNoStub(t *testing.T) {
	cohere := newFake(entity.ProviderCohere, reply{err: errUpstream})
	openai := newFake(entity.ProviderOpenAI, reply{text: `{"score": 5}`})
	g := newTestGenerator([]repository.TextProvider{cohere, openai})

	_, err := g.GenerateFeedback(context.Background(), validFeedback())
	require.ErrorIs(t, err, entity.ErrGenerationFailed)

	var exhausted *entity.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Len(t, exhausted.Failures, 2)
	assert.Equal(t, entity.ProviderCohere, exhausted.Failures[0].Provider)
	assert.ErrorIs(t, exhausted.Failures[1].Err, entity.ErrParse)
	assert.Equal(t, 3, cohere.Calls())
	assert.Equal(t, 1, openai.Calls())
}

func TestGenerateFeedbackClampsScore(t *testing.T) {
	cohere := newFake(entity.ProviderCohere, reply{text: feedbackReply})
	g := newTestGenerator([]repository.TextProvider{cohere})

	res, err := g.GenerateFeedback(context.Background(), validFeedback())
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Value.Score)
	assert.Equal(t, "few", res.Value.SoftSkills.FillerWords)
	assert.Equal(t, entity.ProviderCohere, res.Provider)
	assert.NotEmpty(t, cohere.last.System)
	assert.Equal(t, "command-r-plus", cohere.last.Model)
}

func TestGenerateQuestionsTruncatesToCount(t *testing.T) {
	openai := newFake(entity.ProviderOpenAI, reply{text: "1) A?\n2) B?\n3) C?"})
	g := newTestGenerator([]repository.TextProvider{openai})

	res, err := g.GenerateQuestions(context.Background(), entity.QuestionsInput{
		MockType:        "Subject",
		RoleOrSubject:   "DBMS",
		Topics:          []string{"Indexes"},
		DurationMinutes: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1. A?", "2. B?"}, res.Value)
}

func TestValidationFailsBeforeAnyProviderCall(t *testing.T) {
	openai := newFake(entity.ProviderOpenAI, reply{text: "1. A?"})
	g := newTestGenerator([]repository.TextProvider{openai})

	_, err := g.GenerateQuestions(context.Background(), entity.QuestionsInput{
		RoleOrSubject:   "DBMS",
		Topics:          []string{"Indexes"},
		DurationMinutes: 10,
	})
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "mockType", verr.Field)
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)

	_, err = g.GenerateFollowUp(context.Background(), entity.FollowUpInput{LastQuestion: "Why Go?", UserAnswer: "no"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "userAnswer", verr.Field)

	assert.Zero(t, openai.Calls())
}

func TestGenerateFollowUpTrimsText(t *testing.T) {
	openai := newFake(entity.ProviderOpenAI, reply{text: "  \"How did you profile it?\"\n"})
	g := newTestGenerator([]repository.TextProvider{openai})

	res, err := g.GenerateFollowUp(context.Background(), entity.FollowUpInput{
		LastQuestion: "Tell me about a performance fix.",
		UserAnswer:   "I removed an N+1 query.",
	})
	require.NoError(t, err)
	assert.Equal(t, "How did you profile it?", res.Value.Question)
}

func TestParseResumeFallsBackToRegex(t *testing.T) {
	openai := newFake(entity.ProviderOpenAI, reply{err: errUpstream})
	cohere := newFake(entity.ProviderCohere, reply{text: "unparseable"})
	g := newTestGenerator([]repository.TextProvider{openai, cohere, client.NewRegexResumeParser()})

	res, err := g.ParseResume(context.Background(), entity.ResumeParseInput{Text: "Jane\nSkills: Go, SQL\n"})
	require.NoError(t, err)
	assert.Equal(t, entity.ProviderRegexResume, res.Provider)
	assert.Equal(t, []string{"Go", "SQL"}, res.Value.Skills)
	assert.NotNil(t, res.Value.Experience)
}

const resumeJSON = `{"summary":"Engineer","skills":["Go"],"experience":[],"education":"BSc","achievements":[]}`

func TestProcessResumeJSONFromText(t *testing.T) {
	openai := newFake(entity.ProviderOpenAI,
		reply{text: resumeJSON},
		reply{text: "```json\n" + `{"summary":"Senior Go engineer","skills":["Go","gRPC"],"experience":[],"education":"BSc","achievements":[]}` + "\n```"},
	)
	g := newTestGenerator([]repository.TextProvider{openai})

	res, err := g.ProcessResume(context.Background(), entity.ResumeInput{
		JobDescription: "Go engineer",
		ResumeText:     "Jane Doe\njane@example.com\n+1 555 123 4567\nSkills: Go",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UseCaseResume, res.UseCase)
	assert.Equal(t, "Jane Doe", res.Value.PersonalInfo.Name)
	assert.Equal(t, "jane@example.com", res.Value.PersonalInfo.Email)
	assert.Equal(t, "+1 555 123 4567", res.Value.PersonalInfo.Mobile)
	require.NotNil(t, res.Value.Resume)
	assert.Equal(t, "Senior Go engineer", res.Value.Resume.Summary)
	assert.Empty(t, res.Value.Text)
	assert.Equal(t, 2, openai.Calls())
}

func TestProcessResumeStructuredUsesDefaults(t *testing.T) {
	openai := newFake(entity.ProviderOpenAI, reply{text: resumeJSON})
	g := newTestGenerator([]repository.TextProvider{openai})

	res, err := g.ProcessResume(context.Background(), entity.ResumeInput{
		JobDescription: "Go engineer",
		Resume:         &entity.Resume{Summary: "Engineer"},
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultPersonalInfo(), res.Value.PersonalInfo)
	assert.Equal(t, 1, openai.Calls())
}

func TestProcessResumeText(t *testing.T) {
	openai := newFake(entity.ProviderOpenAI, reply{text: "JANE DOE\nSenior Go Engineer"})
	g := newTestGenerator([]repository.TextProvider{openai})

	res, err := g.ProcessResume(context.Background(), entity.ResumeInput{
		JobDescription: "Go engineer",
		ResumeText:     "Jane Doe\nGo Engineer",
		Format:         entity.ResumeFormatText,
	})
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE\nSenior Go Engineer", res.Value.Text)
	assert.Nil(t, res.Value.Resume)
	assert.Equal(t, "Your Phone Number", res.Value.PersonalInfo.Mobile)

	_, err = g.ProcessResume(context.Background(), entity.ResumeInput{
		JobDescription: "Go engineer",
		Resume:         &entity.Resume{},
		Format:         entity.ResumeFormatText,
	})
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestGenerateDispatchesLooselyTypedParams(t *testing.T) {
	openai := newFake(entity.ProviderOpenAI, reply{text: "1. A?\n2. B?\n3. C?"})
	g := newTestGenerator([]repository.TextProvider{openai})

	req := entity.NewGenerationRequest(entity.UseCaseQuestions, map[string]any{
		"mockType":         "Role",
		"roleOrSubject":    "SRE",
		"subjectsOrTopics": []any{"Linux", "Networking"},
		"duration":         "6",
	})
	out, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	res, ok := out.(entity.Result[[]string])
	require.True(t, ok)
	assert.Equal(t, req.ID, res.RequestID)
	assert.Len(t, res.Value, 3)
}

func TestGenerateRejectsUnknownAndAudioUseCases(t *testing.T) {
	g := newTestGenerator(nil)

	_, err := g.Generate(context.Background(), entity.NewGenerationRequest("poetry", nil))
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)

	_, err = g.Generate(context.Background(), entity.NewGenerationRequest(entity.UseCaseTranscription, nil))
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)

	_, err = g.Generate(context.Background(), entity.NewGenerationRequest(entity.UseCaseQuiz, map[string]any{
		"topic":        "Go",
		"numQuestions": "many",
	}))
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestTranscribeFallsBackToSecondProvider(t *testing.T) {
	whisper := &fakeTranscriber{name: entity.ProviderWhisper, err: errUpstream}
	assembly := &fakeTranscriber{name: entity.ProviderAssemblyAI, res: entity.TranscriptResult{
		Text:    "hello",
		Metrics: &entity.SpeechMetrics{FillerWordCount: 1, AverageWordConfidence: 0.9, SpeakingRate: 2},
	}}
	g := newTestGenerator(nil, whisper, assembly)

	res, err := g.Transcribe(context.Background(), []byte("audio"))
	require.NoError(t, err)
	assert.Equal(t, entity.ProviderAssemblyAI, res.Provider)
	assert.Equal(t, "hello", res.Value.Text)
	require.NotNil(t, res.Value.Metrics)
	assert.Equal(t, 1, whisper.calls)

	_, err = g.Transcribe(context.Background(), nil)
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestExtractPersonalInfoDefaults(t *testing.T) {
	info := ExtractPersonalInfo("\n")
	assert.Equal(t, DefaultPersonalInfo(), info)
}
