package vision

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"

	apperrors "palm-reader-api/internal/errors"
)

// KeyResolver yields the provider credential. It runs on every call so
// platforms that inject secrets per request are tolerated.
type KeyResolver func() (string, error)

// OpenAIAdapter wraps the OpenAI SDK for native and compatible deployments
// (OpenAI, Groq). It makes exactly one outbound call per invocation and
// surfaces vendor errors verbatim.
type OpenAIAdapter struct {
	baseURL    string
	resolveKey KeyResolver
}

// NewOpenAIAdapter creates an adapter for the given endpoint and credential resolver
func NewOpenAIAdapter(baseURL string, resolveKey KeyResolver) *OpenAIAdapter {
	return &OpenAIAdapter{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		resolveKey: resolveKey,
	}
}

func (a *OpenAIAdapter) newClient() (openai.Client, error) {
	key, err := a.resolveKey()
	if err != nil {
		return openai.Client{}, err
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(key)}
	if a.baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(a.baseURL))
	}
	return openai.NewClient(requestOpts...), nil
}

// Generate performs one chat-completion call with the prompt and image
func (a *OpenAIAdapter) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := a.newClient()
	if err != nil {
		return "", err
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.Prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: req.Image.DataURL,
		}),
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(parts),
		},
		Temperature: param.NewOpt(0.7),
		MaxTokens:   param.NewOpt(int64(1024)),
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewProviderError("vendor returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the model identifiers available to the credential
func (a *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	client, err := a.newClient()
	if err != nil {
		return nil, err
	}

	page, err := client.Models.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(page.Data))
	for _, item := range page.Data {
		out = append(out, item.ID)
	}
	return out, nil
}
