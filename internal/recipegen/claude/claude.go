package claude

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/pantryledger/pantryledger/internal/recipegen"
)

// maxTokens leaves room for a handful of full recipes in one response.
const maxTokens = 4096

const systemPrompt = "You are a home cooking assistant. You only answer with JSON."

type ClaudeGenerator struct {
	client *anthropic.Client
	model  string
}

func NewClaudeGenerator(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeGenerator {
	return &ClaudeGenerator{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (g *ClaudeGenerator) Generate(ctx context.Context, req recipegen.Request) ([]recipegen.GeneratedRecipe, error) {
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(g.model),
		System:    systemPrompt,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(recipegen.BuildPrompt(req)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	var text string
	for _, content := range resp.Content {
		if content.Type == anthropic.MessagesContentTypeText {
			text = content.GetText()
			break
		}
	}

	return recipegen.ParseRecipes(text)
}
