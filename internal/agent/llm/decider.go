package llm

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"

	"github.com/carllama/server/internal/agent/model"
)

// Decider picks the next system action from the fully merged dialogue state.
type Decider struct {
	cm *ChatModels
}

func NewDecider(cm *ChatModels) *Decider {
	return &Decider{cm: cm}
}

func (d *Decider) Decide(ctx context.Context, state *model.DialogueState, history string) (*model.Decision, error) {
	system, err := RenderDeciderSystem(ctx)
	if err != nil {
		return nil, fmt.Errorf("render decider prompt: %w", err)
	}

	// The decider sees the whole state including nulls: missing slots are
	// exactly what drives request_info.
	stateJSON, err := sonic.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal dialogue state: %w", err)
	}

	out, err := d.cm.NLU.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(withHistory(string(stateJSON), history)),
	})
	if err != nil {
		return nil, fmt.Errorf("decider generate: %w", err)
	}
	logUsage("decider", d.cm.NLUModelName, out)

	return decodeObject[model.Decision](out.Content)
}

var _ model.Decider = (*Decider)(nil)
