package config

import (
	"time"

	"interview-core/internal/domain/entity"
)

// Config holds all process configuration. It is built once by Load and
// passed by pointer into adapters and use cases; nothing mutates it after
// startup.
type Config struct {
	Env        string         `mapstructure:"env" validate:"required,oneof=dev development prod production test"`
	Port       int            `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	Cohere     ProviderConfig `mapstructure:"cohere"`
	AssemblyAI ProviderConfig `mapstructure:"assemblyai"`
	Redis      RedisConfig    `mapstructure:"redis"`
	PolicyFile string         `mapstructure:"policy_file"`

	// Policies maps each use case to its ordered fallback chain.
	Policies map[entity.UseCase][]entity.ProviderSpec `mapstructure:"-" validate:"required,dive,keys,usecase,endkeys,min=1,dive"`

	// EnvFileLoaded reports whether .env.dev was found.
	EnvFileLoaded bool `mapstructure:"-"`
}

// ProviderConfig holds credentials for one remote provider. An empty APIKey
// is allowed; the adapter then fails fatally and the chain moves on.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	// DailyLimit is the number of generations a user may run per feature
	// per day. Zero disables limiting.
	DailyLimit int `mapstructure:"daily_limit" validate:"gte=0"`
}

// Policy returns the configured chain for a use case.
func (c *Config) Policy(useCase entity.UseCase) []entity.ProviderSpec {
	return c.Policies[useCase]
}

func spec(name, model string, retries int, base, timeout time.Duration) entity.ProviderSpec {
	return entity.ProviderSpec{
		Name:        name,
		Model:       model,
		Temperature: 0.7,
		MaxRetries:  retries,
		BaseDelay:   base,
		Timeout:     timeout,
	}
}

func ranked(specs ...entity.ProviderSpec) []entity.ProviderSpec {
	for i := range specs {
		specs[i].Priority = i
	}
	return specs
}

// DefaultPolicies are the fallback chains used when no policy file
// overrides them.
func DefaultPolicies() map[entity.UseCase][]entity.ProviderSpec {
	const (
		gpt35   = "gpt-3.5-turbo"
		gpt4    = "gpt-4"
		gemini  = "gemini-1.5-pro"
		command = "command-r-plus"
	)

	quizCohere := spec(entity.ProviderCohere, command, 2, 500*time.Millisecond, 10*time.Second)
	quizCohere.MaxTokens = 800

	planCohere := spec(entity.ProviderCohere, command, 2, time.Second, 20*time.Second)
	planCohere.MaxTokens = 1500

	withTemp := func(s entity.ProviderSpec, temp float64, maxTokens int) entity.ProviderSpec {
		s.Temperature = temp
		s.MaxTokens = maxTokens
		return s
	}

	return map[entity.UseCase][]entity.ProviderSpec{
		entity.UseCaseQuestions: ranked(
			spec(entity.ProviderOpenAI, gpt35, 2, 500*time.Millisecond, 10*time.Second),
			spec(entity.ProviderGemini, gemini, 2, 500*time.Millisecond, 10*time.Second),
			spec(entity.ProviderCohere, command, 2, 500*time.Millisecond, 10*time.Second),
		),
		entity.UseCaseQuiz: ranked(
			spec(entity.ProviderOpenAI, "gpt-4o-mini", 2, 500*time.Millisecond, 10*time.Second),
			spec(entity.ProviderGemini, gemini, 2, 500*time.Millisecond, 10*time.Second),
			quizCohere,
		),
		entity.UseCaseFollowUp: ranked(
			spec(entity.ProviderOpenAI, gpt35, 1, 500*time.Millisecond, 15*time.Second),
			spec(entity.ProviderGemini, gemini, 1, 500*time.Millisecond, 15*time.Second),
		),
		entity.UseCaseFeedback: ranked(
			spec(entity.ProviderCohere, command, 2, 2*time.Second, 15*time.Second),
			spec(entity.ProviderOpenAI, gpt35, 2, 2*time.Second, 15*time.Second),
		),
		entity.UseCaseStudyPlan: ranked(
			planCohere,
			spec(entity.ProviderOpenAI, gpt35, 2, time.Second, 20*time.Second),
		),
		entity.UseCaseJobDescription: ranked(
			withTemp(spec(entity.ProviderOpenAI, gpt4, 1, time.Second, 20*time.Second), 0.3, 0),
			withTemp(spec(entity.ProviderCohere, command, 1, time.Second, 20*time.Second), 0.3, 1000),
		),
		entity.UseCaseResumeParse: ranked(
			withTemp(spec(entity.ProviderOpenAI, gpt4, 1, time.Second, 20*time.Second), 0.3, 0),
			withTemp(spec(entity.ProviderCohere, command, 1, time.Second, 20*time.Second), 0.3, 1000),
			spec(entity.ProviderRegexResume, "", 0, 0, 0),
		),
		entity.UseCaseResume: ranked(
			withTemp(spec(entity.ProviderOpenAI, gpt4, 1, time.Second, 20*time.Second), 0.4, 0),
			withTemp(spec(entity.ProviderCohere, command, 1, time.Second, 20*time.Second), 0.4, 1000),
		),
		entity.UseCaseResumeRewrite: ranked(
			withTemp(spec(entity.ProviderOpenAI, gpt4, 1, time.Second, 20*time.Second), 0.5, 0),
			withTemp(spec(entity.ProviderCohere, command, 1, time.Second, 20*time.Second), 0.5, 1200),
		),
		entity.UseCaseTranscription: ranked(
			spec(entity.ProviderWhisper, "whisper-1", 0, 0, 20*time.Second),
			spec(entity.ProviderAssemblyAI, "", 0, 0, 0),
		),
	}
}
