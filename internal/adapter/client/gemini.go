package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"interview-core/internal/domain/entity"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-1.5-pro"
	geminiTimeout      = 20 * time.Second
)

// GeminiClient implements repository.TextProvider on top of the genai SDK.
// A client built without an API key fails every call fatally so chains skip
// straight to the next provider.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, baseURL string, httpClient *http.Client) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return &GeminiClient{model: defaultGeminiModel}, nil
	}
	if httpClient == nil {
		httpClient = newHTTPClient(geminiTimeout)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: defaultGeminiModel}, nil
}

func (g *GeminiClient) Name() string { return entity.ProviderGemini }

func (g *GeminiClient) Generate(ctx context.Context, req entity.TextRequest) (string, error) {
	if g.client == nil {
		return "", entity.Fatal(g.Name(), entity.ErrMissingAPIKey)
	}
	if err := requirePrompt(g.Name(), req.Prompt); err != nil {
		return "", err
	}
	model := req.Model
	if model == "" {
		model = g.model
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", &entity.ProviderCallFailure{Provider: g.Name(), Fatal: isPermanentGeminiError(err), Cause: err}
	}
	return result.Text(), nil
}

// isPermanentGeminiError flags request and auth errors, which the SDK
// reports as "Error <code>, Message: ...".
func isPermanentGeminiError(err error) bool {
	msg := err.Error()
	for _, code := range []string{"Error 400", "Error 401", "Error 403", "Error 404"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}
