package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/carllama/server/internal/agent/conversations"
	"github.com/carllama/server/internal/agent/llm"
	"github.com/carllama/server/internal/agent/model"
	"github.com/carllama/server/internal/agent/pipeline"
	"github.com/carllama/server/internal/agent/repo"
	"github.com/carllama/server/internal/core"
	errx "github.com/carllama/server/internal/core/error"
	"github.com/carllama/server/internal/store"
	logx "github.com/carllama/server/pkg/logger"
	pkgredis "github.com/carllama/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Pipeline configs
	NLU          model.NLUModelConfig
	Response     model.ResponseModelConfig
	Prompt       model.ResponsePromptConfig
	Conversation model.ConversationConfig
	Pipeline     model.PipelineConfig
	Store        model.StoreConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	inventory, err := store.Load(cfg.Store.CarsPath)
	if err != nil {
		log.Fatalf("Failed to load car inventory: %v", err)
	}

	transcripts, cleanup, err := buildTranscriptRepo(cfg)
	if err != nil {
		log.Fatalf("Failed to initialise transcript repository: %v", err)
	}
	defer cleanup()

	cms, err := llm.NewChatModels(ctx, llm.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		NLUConfig:  &cfg.NLU,
		RespConfig: &cfg.Response,
	})
	if err != nil {
		log.Fatalf("Failed to create chat models: %v", err)
	}

	recorder := conversations.NewRecorder(transcripts)
	orchestrator := pipeline.NewOrchestrator(
		llm.NewSegmenter(cms),
		llm.NewExtractor(cms),
		llm.NewDecider(cms),
		llm.NewRenderer(cms, cfg.Prompt),
		inventory,
		recorder,
		cfg.Pipeline,
	)

	session := pipeline.NewSession(uuid.NewString(), cfg.Conversation.History.MaxTurns)
	logx.Info().Str("session_id", session.ID).Msg("Session started")

	runREPL(ctx, orchestrator, recorder, session, cfg.Pipeline.InitialMessage)
}

// buildTranscriptRepo picks Redis when configured and falls back to process
// memory otherwise.
func buildTranscriptRepo(cfg AppConfig) (model.TranscriptRepository, func(), error) {
	if cfg.Redis.URL == "" {
		logx.Info().Msg("No Redis configured, keeping transcripts in memory")
		return repo.NewMemoryTranscriptRepository(), func() {}, nil
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		return nil, nil, err
	}
	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", cfg.Conversation.TTL, err)
	}
	return repo.NewRedisTranscriptRepository(rdb, ttl), func() { rdb.Close() }, nil
}

// runREPL is the interactive loop: one line in, one turn through the
// pipeline, one "System:" line out. The literal input "exit" terminates.
func runREPL(ctx context.Context, orchestrator *pipeline.Orchestrator, recorder *conversations.Recorder, session *pipeline.Session, initialMessage string) {
	fmt.Printf("System: %s\n", initialMessage)
	if err := session.History.Append(conversations.SenderSystem, initialMessage); err != nil {
		logx.Error().Err(err).Msg("Failed to seed history with initial message")
	}
	recorder.RecordSystem(ctx, session.ID, initialMessage)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("User: ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if input == "exit" {
			logx.Info().Msg("Exiting the conversation")
			break
		}

		response, err := orchestrator.ProcessTurn(ctx, session, input)
		if err != nil {
			if errors.Is(err, errx.ErrUnknownIntent) {
				logx.Error().Err(err).Msg("Turn aborted on unknown intent")
				fmt.Println("System: I'm sorry, I didn't understand that. I can help you buy, rent or order a car, book an appointment, or answer questions about our cars.")
				continue
			}
			logx.Error().Err(err).Msg("Turn failed")
			fmt.Println("System: Something went wrong on my side. Let's try again.")
			continue
		}
		fmt.Printf("System: %s\n", response)
	}

	if err := scanner.Err(); err != nil {
		logx.Error().Err(err).Msg("Input stream error")
	}
}
