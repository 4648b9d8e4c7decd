package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/csw48/AI-autonomous-platform/internal/provider"
)

const defaultSystemPrompt = "You are a helpful AI assistant."

// LLMQueryAction sends a prompt to a configured language model provider.
type LLMQueryAction struct {
	providers *provider.Registry
}

func (a *LLMQueryAction) Type() string        { return "llm_query" }
func (a *LLMQueryAction) Description() string { return "Query a language model with a prompt" }

func (a *LLMQueryAction) Validate(params map[string]any) error {
	_, err := requireString(params, "prompt", a.Type())
	return err
}

// Execute supports optional system_prompt, model, provider, temperature and
// max_tokens parameters. Output is a map with response and tokens_used.
func (a *LLMQueryAction) Execute(ctx context.Context, params map[string]any, execContext map[string]any) (any, error) {
	prompt, err := requireString(params, "prompt", a.Type())
	if err != nil {
		return nil, err
	}
	if a.providers == nil {
		return nil, fmt.Errorf("no LLM providers configured")
	}

	systemPrompt := defaultSystemPrompt
	if s, ok := params["system_prompt"].(string); ok {
		systemPrompt = s
	}
	temperature := numParam(params, "temperature", 0.7)
	maxTokens := int(numParam(params, "max_tokens", 1000))

	var p provider.Provider
	if name, ok := params["provider"].(string); ok && name != "" {
		p, ok = a.providers.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
	} else {
		p, err = a.providers.Default()
		if err != nil {
			return nil, err
		}
	}

	model, _ := params["model"].(string)

	slog.Info("executing llm query", "provider", p.Name(), "prompt_len", len(prompt))

	resp, err := p.ChatCompletion(ctx, &provider.ChatRequest{
		Model: model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: systemPrompt},
			{Role: provider.RoleUser, Content: prompt},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("llm query: %w", err)
	}

	tokens := resp.TokensUsed
	if tokens == 0 {
		tokens = len(strings.Fields(resp.Content))
	}
	return map[string]any{
		"response":    resp.Content,
		"tokens_used": tokens,
	}, nil
}
