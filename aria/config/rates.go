package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// RateTable holds per-unit prices for session cost accounting. Prices are
// vendor list prices, so they live in configuration rather than code.
type RateTable struct {
	STTPerSecond      float64 `yaml:"stt_per_second"`
	TTSPerChar        float64 `yaml:"tts_per_char"`
	LLMPerInputToken  float64 `yaml:"llm_per_input_token"`
	LLMPerOutputToken float64 `yaml:"llm_per_output_token"`
}

// DefaultRates: STT $0.0058/min, TTS $10.00/1M chars,
// LLM $0.85/1M input + $1.20/1M output tokens.
func DefaultRates() RateTable {
	return RateTable{
		STTPerSecond:      0.0000967,
		TTSPerChar:        0.00001,
		LLMPerInputToken:  0.00000085,
		LLMPerOutputToken: 0.0000012,
	}
}

// LoadRates reads the rate table from path, falling back to DefaultRates when
// path is empty or unreadable.
func LoadRates(path string) (RateTable, error) {
	rates := DefaultRates()
	if path == "" {
		return rates, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rates, err
	}
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return DefaultRates(), err
	}
	return rates, nil
}
