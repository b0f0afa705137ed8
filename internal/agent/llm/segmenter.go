package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/carllama/server/internal/agent/model"
)

// Segmenter splits raw utterances into intent-tagged segments with the
// low-temperature analysis model.
type Segmenter struct {
	cm *ChatModels
}

func NewSegmenter(cm *ChatModels) *Segmenter {
	return &Segmenter{cm: cm}
}

func (s *Segmenter) Segment(ctx context.Context, text, history string) ([]model.Segment, error) {
	system, err := RenderSegmenterSystem(ctx)
	if err != nil {
		return nil, fmt.Errorf("render segmenter prompt: %w", err)
	}

	out, err := s.cm.NLU.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(withHistory(text, history)),
	})
	if err != nil {
		return nil, fmt.Errorf("segmenter generate: %w", err)
	}
	logUsage("segmenter", s.cm.NLUModelName, out)

	segments, err := decodeArray[model.Segment](out.Content)
	if err != nil {
		return nil, err
	}
	return segments, nil
}

// withHistory prefixes the user content with the bounded conversation
// history so collaborators can resolve references like "that one".
func withHistory(content, history string) string {
	if history == "" {
		return content
	}
	var b strings.Builder
	b.WriteString("<conversation_history>\n")
	b.WriteString(history)
	b.WriteString("</conversation_history>\n\n")
	b.WriteString(content)
	return b.String()
}

var _ model.Segmenter = (*Segmenter)(nil)
