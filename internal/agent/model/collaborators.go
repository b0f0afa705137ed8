package model

import "context"

// The pipeline treats language handling as opaque collaborators: splitting a
// raw utterance into intent-tagged segments, mapping a segment to slots,
// choosing the next action, and rendering an action back to text. The
// orchestrator never inspects prompts or model output beyond these contracts.

// Segmenter splits a raw user utterance into ordered intent-tagged segments.
type Segmenter interface {
	Segment(ctx context.Context, text string, history string) ([]Segment, error)
}

// Extractor maps one segment to intent plus slots matching the static schema
// for that intent kind.
type Extractor interface {
	Extract(ctx context.Context, seg Segment, history string) (*Extraction, error)
}

// Decider maps a fully merged dialogue state to the next system action.
type Decider interface {
	Decide(ctx context.Context, state *DialogueState, history string) (*Decision, error)
}

// Renderer turns a decided action plus grounded data into natural language.
// Combine coalesces per-segment responses of a multi-intent turn into one
// message, preserving their original order.
type Renderer interface {
	Render(ctx context.Context, decision *Decision, grounding *Grounding, state *DialogueState, history string) (string, error)
	Combine(ctx context.Context, responses []string) (string, error)
}
