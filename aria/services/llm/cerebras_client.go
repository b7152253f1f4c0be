package llm

import (
	httputils "aria/aria/utils/http"
	"aria/aria/utils/logging"
	"context"
	"fmt"
)

// CerebrasClient talks to an OpenAI-compatible chat completions endpoint.
// The default base URL points at Cerebras; any compatible server works.
type CerebrasClient struct {
	baseURL string
	apiKey  string
}

func NewCerebrasClient(baseURL, apiKey string) *CerebrasClient {
	if baseURL == "" {
		baseURL = "https://api.cerebras.ai/v1"
	}
	return &CerebrasClient{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Run executes a single (non-streaming) chat completion.
func (c *CerebrasClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "cerebras_service_run")()

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)

	var resp struct {
		ID      string `json:"id"`
		Object  string `json:"object"`
		Created int64  `json:"created"`
		Model   string `json:"model"`
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}

	if err := httputils.PostJSONWithAuth(ctx, url, c.apiKey, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("no choices returned")
}
