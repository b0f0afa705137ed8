package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"

	"github.com/carllama/server/internal/agent/dialogue"
	"github.com/carllama/server/internal/agent/model"
)

// Renderer turns decided actions into user-facing text with the response
// model.
type Renderer struct {
	cm        *ChatModels
	promptCfg model.ResponsePromptConfig
}

func NewRenderer(cm *ChatModels, promptCfg model.ResponsePromptConfig) *Renderer {
	return &Renderer{cm: cm, promptCfg: promptCfg}
}

func (r *Renderer) Render(ctx context.Context, decision *model.Decision, grounding *model.Grounding, state *model.DialogueState, history string) (string, error) {
	system, err := RenderRendererSystem(ctx, r.promptCfg)
	if err != nil {
		return "", fmt.Errorf("render renderer prompt: %w", err)
	}

	payload := map[string]any{
		"decision": decision,
	}
	if grounding != nil {
		payload["data"] = grounding.Data
		if len(grounding.Relaxed) > 0 {
			payload["constraints_relaxed"] = grounding.Relaxed
		}
	}
	if state != nil {
		// cleaned state keeps all-null noise out of the prompt
		payload["state"] = map[string]any{
			"intent": state.Intent,
			"slots":  dialogue.Clean(state.Slots),
		}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal render payload: %w", err)
	}

	out, err := r.cm.Response.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(withHistory(string(body), history)),
	})
	if err != nil {
		return "", fmt.Errorf("renderer generate: %w", err)
	}
	logUsage("renderer", r.cm.ResponseModelName, out)

	return strings.TrimSpace(out.Content), nil
}

// Combine coalesces the per-segment responses of a multi-intent turn into
// one message, preserving their order.
func (r *Renderer) Combine(ctx context.Context, responses []string) (string, error) {
	system, err := RenderCombineSystem(ctx, r.promptCfg)
	if err != nil {
		return "", fmt.Errorf("render combine prompt: %w", err)
	}

	var b strings.Builder
	for i, resp := range responses {
		fmt.Fprintf(&b, "Draft %d:\n%s\n\n", i+1, resp)
	}

	out, err := r.cm.Response.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(b.String()),
	})
	if err != nil {
		return "", fmt.Errorf("combine generate: %w", err)
	}
	logUsage("renderer_combine", r.cm.ResponseModelName, out)

	return strings.TrimSpace(out.Content), nil
}

var _ model.Renderer = (*Renderer)(nil)
