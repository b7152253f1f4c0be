package llm

import (
	"context"
	"time"
)

const summarizerTimeout = 30 * time.Second

// Summarizer adapts a completion client to the session engine's
// summarization capability.
type Summarizer struct {
	client *CerebrasClient
	model  string
}

func NewSummarizer(client *CerebrasClient, model string) *Summarizer {
	return &Summarizer{client: client, model: model}
}

func (s *Summarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, summarizerTimeout)
	defer cancel()

	return s.client.Run(ctx, ChatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: "You are a professional assistant summarizing a call."},
			{Role: "user", Content: prompt},
		},
		Stream: false,
	})
}
