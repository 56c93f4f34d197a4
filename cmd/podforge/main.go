// Command podforge runs the podcast generation server.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"podforge/internal/config"
	"podforge/internal/log"
	"podforge/internal/storage"
	"podforge/pkg/audioio"
	"podforge/pkg/podcast"
	"podforge/pkg/script"
	"podforge/pkg/synth"
	"podforge/pkg/web"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	configPath := os.Getenv("PODFORGE_CONFIG")
	if configPath == "" {
		configPath = "podforge.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	log.Init(cfg.Server.LogLevel)
	logger := log.L()

	// Document and artifact stores.
	if err := os.MkdirAll(cfg.Paths.DocumentsDir, 0o755); err != nil {
		logger.Error("create documents dir", "error", err)
		os.Exit(1)
	}
	docs, err := podcast.NewDirDocuments(cfg.Paths.DocumentsDir)
	if err != nil {
		logger.Error("open document store", "error", err)
		os.Exit(1)
	}
	artifacts, err := podcast.NewArtifactStore(cfg.Paths.ArtifactsDir)
	if err != nil {
		logger.Error("open artifact store", "error", err)
		os.Exit(1)
	}

	// Job store: SQLite when configured, in-memory otherwise.
	var jobs podcast.JobStore
	if cfg.Paths.Database != "" {
		db, err := storage.Open(cfg.Paths.Database)
		if err != nil {
			logger.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		jobs = storage.NewJobStore(db)
		logger.Info("job store ready", "backend", "sqlite", "path", cfg.Paths.Database)
	} else {
		jobs = podcast.NewMemoryStore()
		logger.Info("job store ready", "backend", "memory")
	}

	generator, err := buildGenerator(cfg, logger)
	if err != nil {
		logger.Error("configure script generator", "error", err)
		os.Exit(1)
	}

	engines := buildEngines(cfg, logger)
	if len(engines) == 0 {
		logger.Warn("no synthesis engines configured, jobs will complete without audio")
	}

	assembler := audioio.NewAssembler()
	if cfg.Synth.OutputSampleRate > 0 {
		assembler.OutputRate = cfg.Synth.OutputSampleRate
	}

	orch, err := podcast.NewOrchestrator(podcast.OrchestratorConfig{
		Store:              jobs,
		Documents:          docs,
		Generator:          generator,
		Engines:            engines,
		Artifacts:          artifacts,
		Assembler:          assembler,
		Voices:             cfg.Synth.Voices,
		ScriptTimeout:      time.Duration(cfg.Script.TimeoutSeconds) * time.Second,
		MaxConcurrentSynth: cfg.Synth.MaxConcurrent,
		Logger:             logger,
	})
	if err != nil {
		logger.Error("configure orchestrator", "error", err)
		os.Exit(1)
	}

	gateway := podcast.NewGateway(jobs, artifacts, logger)
	auth := web.NewTokenAuth(cfg.Auth.Tokens)
	server := web.NewServer(cfg.Server.Port, orch, gateway, auth, logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		_ = server.Shutdown()
	}()

	if err := server.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}

	// Let running pipelines finish before exiting.
	orch.Wait()
}

// buildGenerator wires the configured script provider.
func buildGenerator(cfg *config.Config, logger *slog.Logger) (script.Generator, error) {
	opts := []script.Option{
		script.WithAPIKey(cfg.Script.APIKey),
		script.WithModel(cfg.Script.Model),
		script.WithMaxTokens(cfg.Script.MaxTokens),
		script.WithTemperature(cfg.Script.Temperature),
		script.WithLogger(logger),
	}
	if cfg.Script.BaseURL != "" {
		opts = append(opts, script.WithBaseURL(cfg.Script.BaseURL))
	}
	if cfg.Script.TimeoutSeconds > 0 {
		opts = append(opts, script.WithTimeout(time.Duration(cfg.Script.TimeoutSeconds)*time.Second))
	}
	return script.NewChatGenerator(opts...)
}

// buildEngines builds the ranked synthesis engine list from config.
// Engines that fail to construct (typically a missing API key) are
// logged and skipped rather than aborting startup.
func buildEngines(cfg *config.Config, logger *slog.Logger) []synth.Engine {
	var engines []synth.Engine

	for _, name := range cfg.Synth.Engines {
		var (
			engine synth.Engine
			err    error
		)
		switch name {
		case "openai":
			opts := []synth.Option{
				synth.WithAPIKey(cfg.Synth.OpenAI.APIKey),
				synth.WithLogger(logger),
			}
			if cfg.Synth.OpenAI.BaseURL != "" {
				opts = append(opts, synth.WithBaseURL(cfg.Synth.OpenAI.BaseURL))
			}
			if cfg.Synth.OpenAI.Model != "" {
				opts = append(opts, synth.WithModel(cfg.Synth.OpenAI.Model))
			}
			engine, err = synth.NewOpenAI(opts...)
		case "elevenlabs":
			opts := []synth.Option{
				synth.WithAPIKey(cfg.Synth.ElevenLabs.APIKey),
				synth.WithLogger(logger),
			}
			if cfg.Synth.ElevenLabs.BaseURL != "" {
				opts = append(opts, synth.WithBaseURL(cfg.Synth.ElevenLabs.BaseURL))
			}
			if cfg.Synth.ElevenLabs.Model != "" {
				opts = append(opts, synth.WithModel(cfg.Synth.ElevenLabs.Model))
			}
			engine, err = synth.NewElevenLabs(opts...)
		default:
			logger.Warn("unknown synthesis engine in config", "engine", name)
			continue
		}

		if err != nil {
			logger.Warn("synthesis engine not configured", "engine", name, "error", err)
			continue
		}
		engines = append(engines, engine)
	}

	return engines
}
