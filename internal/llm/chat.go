package llm

import (
	"context"
	"encoding/json"

	"github.com/gorewood/contentbot/internal/output"
)

// OpenRouter, OpenAI and local servers (LM Studio, Ollama) share the
// chat completions wire format.

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) completeChat(ctx context.Context, req Request) (*Response, error) {
	headers := map[string]string{}
	switch c.provider {
	case ProviderOpenRouter:
		headers["Authorization"] = "Bearer " + c.apiKey
		headers["X-Title"] = "contentbot"
	case ProviderOpenAI:
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	respBody, err := c.doRequest(ctx, c.baseURL+"/chat/completions", c.buildChatRequest(req), headers)
	if err != nil {
		return nil, err
	}

	return parseChatResponse(respBody, c.model)
}

func (c *Client) buildChatRequest(req Request) chatRequest {
	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	// An empty model lets a local server use whatever it has loaded.
	model := c.model
	if c.provider == ProviderLocal && (model == "default" || model == "local") {
		model = ""
	}

	return chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}

func parseChatResponse(respBody []byte, model string) (*Response, error) {
	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse response", err)
	}

	if result.Error != nil {
		return nil, output.NewSystemError("API error: " + result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return nil, output.NewSystemError("empty response from API")
	}

	if result.Model != "" {
		model = result.Model
	}
	if model == "" || model == "default" {
		model = "local"
	}

	return &Response{Content: result.Choices[0].Message.Content, Model: model}, nil
}
