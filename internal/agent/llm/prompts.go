package llm

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/carllama/server/internal/agent/model"
)

//go:embed template/segmenter_prompt.txt
var segmenterSystemPrompt string

//go:embed template/extractor_prompt.txt
var extractorSystemPrompt string

//go:embed template/decider_prompt.txt
var deciderSystemPrompt string

//go:embed template/renderer_prompt.txt
var rendererSystemPrompt string

//go:embed template/combine_prompt.txt
var combineSystemPrompt string

func intentList() string {
	kinds := []model.IntentKind{
		model.IntentBuyingCar, model.IntentRentingCar, model.IntentGetCarInfo,
		model.IntentNegotiatePrice, model.IntentOrderCar, model.IntentBookAppointment,
		model.IntentGiveFeedback, model.IntentOutOfDomain,
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// RenderSegmenterSystem renders the segmentation system prompt.
func RenderSegmenterSystem(ctx context.Context) (string, error) {
	content := strings.NewReplacer(
		"{intents}", intentList(),
	).Replace(segmenterSystemPrompt)
	return renderSystem(ctx, content)
}

// RenderExtractorSystem renders the slot-extraction system prompt for one
// intent kind, listing exactly that kind's slot schema.
func RenderExtractorSystem(ctx context.Context, kind model.IntentKind) (string, error) {
	keys, ok := model.SlotSchema(kind)
	if !ok {
		return "", fmt.Errorf("no slot schema for intent %q", kind)
	}
	content := strings.NewReplacer(
		"{intent}", string(kind),
		"{slots}", strings.Join(keys, ", "),
	).Replace(extractorSystemPrompt)
	return renderSystem(ctx, content)
}

// RenderDeciderSystem renders the decision system prompt.
func RenderDeciderSystem(ctx context.Context) (string, error) {
	content := strings.NewReplacer(
		"{intents}", intentList(),
	).Replace(deciderSystemPrompt)
	return renderSystem(ctx, content)
}

// RenderRendererSystem renders the response-generation system prompt.
func RenderRendererSystem(ctx context.Context, cfg model.ResponsePromptConfig) (string, error) {
	content := strings.NewReplacer(
		"{business_name}", cfg.BusinessName,
		"{assistant_name}", cfg.AssistantName,
	).Replace(rendererSystemPrompt)
	return renderSystem(ctx, content)
}

// RenderCombineSystem renders the multi-response combination system prompt.
func RenderCombineSystem(ctx context.Context, cfg model.ResponsePromptConfig) (string, error) {
	content := strings.NewReplacer(
		"{assistant_name}", cfg.AssistantName,
	).Replace(combineSystemPrompt)
	return renderSystem(ctx, content)
}

// renderSystem wraps the templated content through the Eino prompt component
// using a messages placeholder, so prompt callbacks fire and JSON braces in
// the template survive untouched.
func renderSystem(ctx context.Context, content string) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
