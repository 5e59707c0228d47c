package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"interview-core/internal/domain/entity"
)

var envBindings = map[string]string{
	"env":                 "APP_ENV",
	"port":                "PORT",
	"openai.api_key":      "OPENAI_API_KEY",
	"openai.base_url":     "OPENAI_BASE_URL",
	"gemini.api_key":      "GEMINI_API_KEY",
	"gemini.base_url":     "GEMINI_BASE_URL",
	"cohere.api_key":      "COHERE_API_KEY",
	"cohere.base_url":     "COHERE_BASE_URL",
	"assemblyai.api_key":  "ASSEMBLYAI_API_KEY",
	"assemblyai.base_url": "ASSEMBLYAI_BASE_URL",
	"redis.addr":          "REDIS_ADDR",
	"redis.daily_limit":   "DAILY_USAGE_LIMIT",
	"policy_file":         "POLICY_FILE",
}

// Load reads .env.dev (if present), the process environment and an optional
// YAML policy file, then validates the result.
func Load() (*Config, error) {
	envLoaded := godotenv.Load(".env.dev") == nil

	v := viper.New()
	v.SetDefault("env", "development")
	v.SetDefault("port", 5000)
	v.SetDefault("redis.daily_limit", 10)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.EnvFileLoaded = envLoaded
	cfg.Policies = DefaultPolicies()

	if cfg.PolicyFile != "" {
		overrides, err := loadPolicyFile(cfg.PolicyFile)
		if err != nil {
			return nil, err
		}
		for useCase, chain := range overrides {
			cfg.Policies[useCase] = chain
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadPolicyFile(path string) (map[entity.UseCase][]entity.ProviderSpec, error) {
	pv := viper.New()
	pv.SetConfigFile(path)
	if err := pv.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read policy file %s: %w", path, err)
	}

	var file struct {
		Policies map[string][]entity.ProviderSpec `mapstructure:"policies"`
	}
	if err := pv.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode policy file %s: %w", path, err)
	}

	out := make(map[entity.UseCase][]entity.ProviderSpec, len(file.Policies))
	for name, chain := range file.Policies {
		useCase := entity.UseCase(name)
		if !useCase.Valid() {
			return nil, fmt.Errorf("policy file %s: unknown use case %q", path, name)
		}
		out[useCase] = chain
	}
	return out, nil
}

// NewValidator returns a validator with the project's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("usecase", func(fl validator.FieldLevel) bool {
		return entity.UseCase(fl.Field().String()).Valid()
	})
	return v
}

func Validate(cfg *Config) error {
	if err := NewValidator().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
