package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey       string
	DefaultModel string
	Timeout      time.Duration
	// Rate limiting / retry
	RequestsPerMinute int
	MaxRetries        int
	BaseURL           string       // Optional (tests)
	HTTPClient        *http.Client // Optional (tests)
}

// OpenAIClient implements LLMClient using the official OpenAI SDK. Transport
// retries are delegated to the SDK.
type OpenAIClient struct {
	defaultModel string
	limiter      *RateLimiter
	client       openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = openAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		defaultModel: cfg.DefaultModel,
		limiter:      NewRateLimiter(cfg.RequestsPerMinute),
		client:       openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Chat sends a chat completion request.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	result := &ChatResult{
		RequestID: requestID,
		Provider:  OpenAIName,
		Attempts:  1,
	}

	if err := c.limiter.Wait(ctx); err != nil {
		result.ErrorType = "cancelled"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, err
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	if req.Temperature != 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens != 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if rf := responseFormatParam(req.ResponseFormat); rf != nil {
		params.ResponseFormat = *rf
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		result.ErrorType = "api_error"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		result.ErrorType = "empty_response"
		result.ErrorMessage = "no choices in response"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("no choices in response")
	}

	result.Success = true
	result.Content = completion.Choices[0].Message.Content
	result.ModelUsed = completion.Model
	result.PromptTokens = int(completion.Usage.PromptTokens)
	result.CompletionTokens = int(completion.Usage.CompletionTokens)
	result.TotalTokens = int(completion.Usage.TotalTokens)
	result.ExecutionTime = time.Since(start)

	if req.ResponseFormat != nil && result.Content != "" {
		var parsed json.RawMessage
		if err := json.Unmarshal([]byte(result.Content), &parsed); err == nil {
			result.ParsedJSON = parsed
		}
	}

	return result, nil
}

// responseFormatParam converts our provider-neutral schema wrapper into the
// SDK's json_schema response format.
func responseFormatParam(rf *ResponseFormat) *openai.ChatCompletionNewParamsResponseFormatUnion {
	if rf == nil || len(rf.JSONSchema) == 0 {
		return nil
	}

	var wrapper struct {
		Name   string `json:"name"`
		Strict bool   `json:"strict"`
		Schema any    `json:"schema"`
	}
	if err := json.Unmarshal(rf.JSONSchema, &wrapper); err != nil {
		return nil
	}

	return &openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   wrapper.Name,
				Strict: openai.Bool(wrapper.Strict),
				Schema: wrapper.Schema,
			},
		},
	}
}

// Verify interface
var _ LLMClient = (*OpenAIClient)(nil)
