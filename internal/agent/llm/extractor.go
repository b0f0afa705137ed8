package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/carllama/server/internal/agent/model"
)

// Extractor maps one segment to its intent's slot schema with the analysis
// model.
type Extractor struct {
	cm *ChatModels
}

func NewExtractor(cm *ChatModels) *Extractor {
	return &Extractor{cm: cm}
}

func (e *Extractor) Extract(ctx context.Context, seg model.Segment, history string) (*model.Extraction, error) {
	kind, ok := model.ParseIntentKind(seg.Intent)
	if !ok {
		// No schema to prompt with; pass the label through so state
		// resolution surfaces it as a contract violation instead of a
		// retryable failure.
		return &model.Extraction{Intent: seg.Intent, Slots: model.Slots{}}, nil
	}

	system, err := RenderExtractorSystem(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("render extractor prompt: %w", err)
	}

	out, err := e.cm.NLU.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(withHistory(seg.Text, history)),
	})
	if err != nil {
		return nil, fmt.Errorf("extractor generate: %w", err)
	}
	logUsage("extractor", e.cm.NLUModelName, out)

	extraction, err := decodeObject[model.Extraction](out.Content)
	if err != nil {
		return nil, err
	}
	if extraction.Slots == nil {
		extraction.Slots = model.Slots{}
	}
	// trust the segmenter over the extractor on the intent label
	extraction.Intent = string(kind)
	return extraction, nil
}

var _ model.Extractor = (*Extractor)(nil)
