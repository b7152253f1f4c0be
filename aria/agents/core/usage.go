package core

import (
	"fmt"

	"aria/aria/config"
)

// Usage holds the session's monotonic resource counters. STT seconds are
// estimated from recognized text length (roughly 15 chars/second of speech),
// LLM output tokens from response length (roughly 4 chars/token).
type Usage struct {
	STTSeconds      float64 `json:"stt_seconds"`
	TTSChars        int     `json:"tts_chars"`
	LLMInputTokens  int     `json:"llm_input_tokens"`
	LLMOutputTokens int     `json:"llm_output_tokens"`

	// DegradedWrites counts best-effort store writes that failed and were
	// logged instead of surfaced to the caller.
	DegradedWrites int `json:"degraded_writes"`
}

type CostLine struct {
	Usage string  `json:"usage"`
	Cost  float64 `json:"cost"`
	Rate  string  `json:"rate"`
}

type CostBreakdown struct {
	STT   CostLine `json:"stt"`
	TTS   CostLine `json:"tts"`
	LLM   CostLine `json:"llm"`
	Total float64  `json:"total"`
}

// CostBreakdown prices the current counters against the rate table. Pure:
// calling it mutates nothing and repeated calls return identical values.
func (u Usage) CostBreakdown(rates config.RateTable) CostBreakdown {
	sttCost := u.STTSeconds * rates.STTPerSecond
	ttsCost := float64(u.TTSChars) * rates.TTSPerChar
	llmInputCost := float64(u.LLMInputTokens) * rates.LLMPerInputToken
	llmOutputCost := float64(u.LLMOutputTokens) * rates.LLMPerOutputToken
	llmCost := llmInputCost + llmOutputCost

	return CostBreakdown{
		STT: CostLine{
			Usage: fmt.Sprintf("%.1fs", u.STTSeconds),
			Cost:  sttCost,
			Rate:  fmt.Sprintf("$%.4f/min", rates.STTPerSecond*60),
		},
		TTS: CostLine{
			Usage: fmt.Sprintf("%d chars", u.TTSChars),
			Cost:  ttsCost,
			Rate:  fmt.Sprintf("$%.2f/1M chars", rates.TTSPerChar*1e6),
		},
		LLM: CostLine{
			Usage: fmt.Sprintf("%din + %dout tokens", u.LLMInputTokens, u.LLMOutputTokens),
			Cost:  llmCost,
			Rate:  fmt.Sprintf("$%.2f/1M in, $%.2f/1M out", rates.LLMPerInputToken*1e6, rates.LLMPerOutputToken*1e6),
		},
		Total: sttCost + ttsCost + llmCost,
	}
}
