package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// jsonSystemPrompt nudges chat models that have no response MIME type switch.
const jsonSystemPrompt = "You are a precise assistant. Reply with a single JSON value and nothing else."

// OpenAIClient implements Client for OpenAI-compatible chat completion APIs.
// OPENAI_BASE_URL points it at a compatible gateway.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	}, tier, false)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(jsonSystemPrompt),
		openai.UserMessage(prompt),
	}, tier, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (c *OpenAIClient) Close() error {
	return nil
}

// chatParams builds the request for tier. jsonMode switches the API to json_object output.
func (c *OpenAIClient) chatParams(messages []openai.ChatCompletionMessageParamUnion, tier ModelTier, jsonMode bool) (openai.ChatCompletionNewParams, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return openai.ChatCompletionNewParams{}, &APICallError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	params := openai.ChatCompletionNewParams{
		Messages:    openai.F(messages),
		Model:       openai.F(openai.ChatModel(modelName)),
		Temperature: openai.F(float64(c.config.Temperature)),
	}
	if jsonMode {
		params.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](openai.ResponseFormatJSONObjectParam{
			Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
		})
	}
	return params, nil
}

func (c *OpenAIClient) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, tier ModelTier, jsonMode bool) (string, error) {
	params, err := c.chatParams(messages, tier, jsonMode)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &APICallError{Message: "chat completion failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &APICallError{Message: "no choices in response"}
	}
	return resp.Choices[0].Message.Content, nil
}
