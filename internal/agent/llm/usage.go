package llm

import (
	"github.com/cloudwego/eino/schema"

	"github.com/carllama/server/internal/agent/model"
	logx "github.com/carllama/server/pkg/logger"
)

// logUsage records token usage and cost for one model invocation.
func logUsage(component, modelName string, out *schema.Message) {
	if !model.CostEnabled() || out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	logx.Debug().
		Str("component", component).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}
