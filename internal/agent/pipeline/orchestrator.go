package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carllama/server/internal/agent/conversations"
	"github.com/carllama/server/internal/agent/model"
	errx "github.com/carllama/server/internal/core/error"
	"github.com/carllama/server/internal/store"
	logx "github.com/carllama/server/pkg/logger"
)

// Orchestrator drives one user utterance through the full turn:
// segmentation, per-segment extraction, state resolution, decision, tracker
// retirement, grounding, rendering, then aggregation when the turn touched
// more than one intent. Strictly single-threaded per session; every
// collaborator call is synchronous and context-bound.
type Orchestrator struct {
	segmenter model.Segmenter
	extractor model.Extractor
	decider   model.Decider
	renderer  model.Renderer
	inventory *store.Inventory
	recorder  *conversations.Recorder
	cfg       model.PipelineConfig
	now       func() time.Time
}

func NewOrchestrator(
	segmenter model.Segmenter,
	extractor model.Extractor,
	decider model.Decider,
	renderer model.Renderer,
	inventory *store.Inventory,
	recorder *conversations.Recorder,
	cfg model.PipelineConfig,
) *Orchestrator {
	return &Orchestrator{
		segmenter: segmenter,
		extractor: extractor,
		decider:   decider,
		renderer:  renderer,
		inventory: inventory,
		recorder:  recorder,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock overrides the wall clock, for appointment grounding in tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// ProcessTurn runs one full turn and returns the system response. A
// collaborator that exhausts its retry budget degrades the turn to the
// configured fallback message; an unknown intent label aborts the turn with
// an error and leaves session state untouched, so the session can continue.
func (o *Orchestrator) ProcessTurn(ctx context.Context, session *Session, userText string) (string, error) {
	history := session.History.Snapshot()

	segments, err := withRetry(ctx, "segmenter", o.cfg.MaxAttempts, func(ctx context.Context) ([]model.Segment, error) {
		segs, err := o.segmenter.Segment(ctx, userText, history)
		if err != nil {
			return nil, err
		}
		if len(segs) == 0 {
			return nil, fmt.Errorf("segmenter returned no segments for %q", userText)
		}
		return segs, nil
	})
	if err != nil {
		return o.fallbackTurn(ctx, session, userText, err)
	}
	logx.Debug().Int("segments", len(segments)).Str("session_id", session.ID).Msg("Utterance segmented")

	responses := make([]string, 0, len(segments))
	for _, segment := range segments {
		response, err := o.processSegment(ctx, session, segment, history)
		if err != nil {
			if errors.Is(err, errx.ErrUnknownIntent) {
				return "", err
			}
			return o.fallbackTurn(ctx, session, userText, err)
		}
		responses = append(responses, response)
	}

	final := responses[0]
	if len(responses) > 1 {
		final, err = withRetry(ctx, "renderer_combine", o.cfg.MaxAttempts, func(ctx context.Context) (string, error) {
			return o.renderer.Combine(ctx, responses)
		})
		if err != nil {
			return o.fallbackTurn(ctx, session, userText, err)
		}
	}

	o.finishTurn(ctx, session, userText, final)
	return final, nil
}

// processSegment runs one intent-tagged segment through extraction,
// resolution, decision, retirement, grounding and rendering.
func (o *Orchestrator) processSegment(ctx context.Context, session *Session, segment model.Segment, history string) (string, error) {
	extraction, err := withRetry(ctx, "extractor", o.cfg.MaxAttempts, func(ctx context.Context) (*model.Extraction, error) {
		ex, err := o.extractor.Extract(ctx, segment, history)
		if err != nil {
			return nil, err
		}
		return ex, validateExtraction(segment, ex)
	})
	if err != nil {
		return "", err
	}

	state, err := session.Registry.Resolve(extraction)
	if err != nil {
		return "", err
	}

	decision, err := withRetry(ctx, "decider", o.cfg.MaxAttempts, func(ctx context.Context) (*model.Decision, error) {
		d, err := o.decider.Decide(ctx, state, history)
		if err != nil {
			return nil, err
		}
		if d == nil || d.Action == "" {
			return nil, fmt.Errorf("decider returned no action for state %v", state.Intent)
		}
		return d, nil
	})
	if err != nil {
		return "", err
	}
	logx.Debug().Str("action", decision.Action).Str("parameter", decision.Parameter).Msg("Decision made")

	// Retire the tracker before grounding: a confirmed transaction is closed,
	// and grounding works on the detached state value.
	if decision.Action == model.ActionConfirmation {
		kind, ok := model.ParseIntentKind(decision.Parameter)
		if !ok {
			logx.Error().Str("parameter", decision.Parameter).Msg("Confirmation names an unknown intent kind")
			return "", errx.UnknownIntent(decision.Parameter)
		}
		session.Registry.Remove(kind)
	}

	grounding := o.ground(decision, state)

	return withRetry(ctx, "renderer", o.cfg.MaxAttempts, func(ctx context.Context) (string, error) {
		text, err := o.renderer.Render(ctx, decision, grounding, state, history)
		if err != nil {
			return "", err
		}
		if text == "" {
			return "", fmt.Errorf("renderer returned empty response for action %s", decision.Action)
		}
		return text, nil
	})
}

// validateExtraction enforces the extractor contract: the slot mapping must
// match the static schema for the intent kind exactly. Unknown kinds pass
// through so Resolve can surface them as a contract violation rather than a
// retryable failure.
func validateExtraction(segment model.Segment, extraction *model.Extraction) error {
	if extraction == nil {
		return fmt.Errorf("extractor returned nil for segment %q", segment.Text)
	}
	kind, ok := model.ParseIntentKind(extraction.Intent)
	if !ok {
		return nil
	}
	keys, _ := model.SlotSchema(kind)
	for slot := range extraction.Slots {
		found := false
		for _, key := range keys {
			if key == slot {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("extractor emitted slot %q outside the %s schema", slot, kind)
		}
	}
	return nil
}

// fallbackTurn degrades a failed turn to the configured apologetic message.
// History and transcript still advance so the session stays coherent.
func (o *Orchestrator) fallbackTurn(ctx context.Context, session *Session, userText string, cause error) (string, error) {
	logx.Error().Err(cause).Str("session_id", session.ID).Str("input", userText).Msg("Turn degraded to fallback response")
	o.finishTurn(ctx, session, userText, o.cfg.FallbackMessage)
	return o.cfg.FallbackMessage, nil
}

// finishTurn appends the raw utterance and the final response to the bounded
// history, once each per turn, and mirrors both into the transcript.
func (o *Orchestrator) finishTurn(ctx context.Context, session *Session, userText, response string) {
	if err := session.History.Append(conversations.SenderUser, userText); err != nil {
		logx.Error().Err(err).Msg("Failed to append user message to history")
	}
	if err := session.History.Append(conversations.SenderSystem, response); err != nil {
		logx.Error().Err(err).Msg("Failed to append system message to history")
	}
	o.recorder.RecordUser(ctx, session.ID, userText)
	o.recorder.RecordSystem(ctx, session.ID, response)
}
