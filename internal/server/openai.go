package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Umesh49/ZeroTrace/internal/pipeline"
)

// DefaultModel is reported when a completion request names no model.
const DefaultModel = "zerobot"

// ChatMessage represents a single message in the OpenAI chat format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the OpenAI chat completions request format.
// Sampling parameters are accepted and ignored.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// ChatChoice represents a single choice in the response.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse is the OpenAI chat completions response format.
type ChatCompletionResponse struct {
	ID      string           `json:"id"`
	Object  string           `json:"object"`
	Created int64            `json:"created"`
	Model   string           `json:"model"`
	Choices []ChatChoice     `json:"choices"`
	Usage   *Usage           `json:"usage,omitempty"`
	ZeroBot *pipeline.Report `json:"_zerobot,omitempty"`
}

// Usage tracks token usage. Tokens are counted as whitespace-separated words.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ParseChatRequest parses an OpenAI chat completion request from JSON bytes.
func ParseChatRequest(data []byte) (*ChatCompletionRequest, error) {
	var req ChatCompletionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing chat request: %w", err)
	}
	return &req, nil
}

// LastUserMessage returns the content of the most recent user message, or
// "" if there is none.
func LastUserMessage(req *ChatCompletionRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content
		}
	}
	return ""
}

// MakeCompletion wraps a pipeline result in a chat completion response.
func MakeCompletion(res *pipeline.Result, prompt, model string) *ChatCompletionResponse {
	if model == "" {
		model = DefaultModel
	}
	text := res.Text()
	promptTokens := len(strings.Fields(prompt))
	completionTokens := len(strings.Fields(text))

	return &ChatCompletionResponse{
		ID:      "chatcmpl-" + strings.TrimPrefix(res.RequestID, "req-"),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []ChatChoice{
			{
				Index: 0,
				Message: ChatMessage{
					Role:    "assistant",
					Content: text,
				},
				FinishReason: "stop",
			},
		},
		Usage: &Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
		ZeroBot: res.BuildReport(),
	}
}
