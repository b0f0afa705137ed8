package model

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"15m"`
	History struct {
		MaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"5"`
	}
}

type NLUModelConfig struct {
	Model       string  `envconfig:"NLU_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"NLU_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"NLU_TEMPERATURE" default:"0.1"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

type ResponsePromptConfig struct {
	BusinessName  string `envconfig:"PROMPT_BUSINESS_NAME" default:"Carllama Motors"`
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"Carllama"`
}

// PipelineConfig carries the turn-level policy knobs. The relaxation order
// and cap are policy, not constants, and depend on the inventory being sold.
type PipelineConfig struct {
	// MaxAttempts bounds retries against a collaborator that keeps returning
	// unusable output.
	MaxAttempts int `envconfig:"PIPELINE_MAX_ATTEMPTS" default:"5"`
	// RelaxationCap bounds how many buying-search constraints may be dropped
	// before giving up with no_results_found.
	RelaxationCap int `envconfig:"PIPELINE_RELAXATION_CAP" default:"2"`
	// RelaxationOrder lists buying slots least-important first; the first
	// non-nil slot in this order is nulled on each relaxation step.
	RelaxationOrder []string `envconfig:"PIPELINE_RELAXATION_ORDER" default:"transmission,year,fuel_type,car_type,model,brand,budget"`
	// FallbackMessage is shown when a collaborator exhausts its retry budget.
	FallbackMessage string `envconfig:"PIPELINE_FALLBACK_MESSAGE" default:"Sorry, I had trouble processing that. Could you rephrase?"`
	// InitialMessage opens every session.
	InitialMessage string `envconfig:"PIPELINE_INITIAL_MESSAGE" default:"Hello! I'm Carllama, your car sales assistant. How can I help you today?"`
}

type StoreConfig struct {
	// CarsPath optionally overrides the embedded inventory dataset.
	CarsPath string `envconfig:"CARS_PATH"`
}
