package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string

	// State
	requestCount atomic.Int64
	lastRequest  atomic.Pointer[ChatRequest]
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// RequestCount returns how many requests the mock has served.
func (c *MockClient) RequestCount() int {
	return int(c.requestCount.Load())
}

// LastRequest returns the most recent request, or nil.
func (c *MockClient) LastRequest() *ChatRequest {
	return c.lastRequest.Load()
}

// Chat sends a mock chat request.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)
	c.lastRequest.Store(req)

	result := &ChatResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockClientName,
		ModelUsed: req.Model,
		Attempts:  1,
	}

	if c.ShouldFail || (c.FailAfter > 0 && count > int64(c.FailAfter)) {
		result.ErrorType = "mock_failure"
		result.ErrorMessage = "mock client configured to fail"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("mock client configured to fail")
	}

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			result.ErrorType = "cancelled"
			result.ErrorMessage = ctx.Err().Error()
			result.ExecutionTime = time.Since(start)
			return result, ctx.Err()
		case <-time.After(c.Latency):
		}
	}

	result.Success = true
	result.Content = c.ResponseText
	result.PromptTokens = 100
	result.CompletionTokens = 50
	result.TotalTokens = 150
	result.ExecutionTime = time.Since(start)

	if req.ResponseFormat != nil && result.Content != "" {
		var parsed json.RawMessage
		if err := json.Unmarshal([]byte(result.Content), &parsed); err == nil {
			result.ParsedJSON = parsed
		}
	}

	return result, nil
}

// Verify interface
var _ LLMClient = (*MockClient)(nil)
