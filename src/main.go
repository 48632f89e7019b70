package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	"github.com/RSAKTHISABARISH/RubyAI/src/configs/database"
	"github.com/RSAKTHISABARISH/RubyAI/src/core"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/brain"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/chat"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/classifier"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/function/tools"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/mcp"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers/asr"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers/llm"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers/tts"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/rag"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/search"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"
	"github.com/RSAKTHISABARISH/RubyAI/src/task"
	"github.com/RSAKTHISABARISH/RubyAI/src/tunnel"
	"github.com/RSAKTHISABARISH/RubyAI/src/web"

	// Adapter packages register themselves with the provider factories.
	_ "github.com/RSAKTHISABARISH/RubyAI/src/core/providers/asr/google"
	_ "github.com/RSAKTHISABARISH/RubyAI/src/core/providers/asr/openai"
	_ "github.com/RSAKTHISABARISH/RubyAI/src/core/providers/llm/ddg"
	_ "github.com/RSAKTHISABARISH/RubyAI/src/core/providers/llm/openai"
	_ "github.com/RSAKTHISABARISH/RubyAI/src/core/providers/tts/edge"
	_ "github.com/RSAKTHISABARISH/RubyAI/src/core/providers/tts/openai"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func LoadConfigAndLogger() (*configs.Config, *utils.Logger, error) {
	config, configPath, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := utils.NewLogger(config)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(fmt.Sprintf("logger ready, config loaded from %s", configPath))

	return config, logger, nil
}

// resolveKey reads the API key named by envName. A configured but unset
// key is an error so misconfiguration surfaces at startup, not mid-turn.
func resolveKey(envName string) (string, error) {
	if envName == "" {
		return "", nil
	}
	key := os.Getenv(envName)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", envName)
	}
	return key, nil
}

// buildASR assembles the transcription fallback chain in configured
// order. Backends that fail to initialize are skipped with a warning;
// at least one must survive.
func buildASR(config *configs.Config, logger *utils.Logger) (asr.Provider, error) {
	names := config.ASRChain
	if len(names) == 0 {
		if selected := config.SelectedModule["ASR"]; selected != "" {
			names = []string{selected}
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no ASR backend configured")
	}

	var backends []asr.Provider
	for _, name := range names {
		cfg, ok := config.ASR[name]
		if !ok {
			logger.Warn(fmt.Sprintf("ASR entry %s is not configured, skipping", name))
			continue
		}
		key, err := resolveKey(cfg.APIKeyEnv)
		if err != nil {
			logger.Warn(fmt.Sprintf("ASR backend %s unavailable: %v", name, err))
			continue
		}
		provider, err := asr.Create(cfg.Type, &asr.Config{
			Type:      cfg.Type,
			ModelName: cfg.ModelName,
			BaseURL:   cfg.BaseURL,
			APIKey:    key,
			Language:  config.DefaultLanguage,
		})
		if err != nil {
			logger.Warn(fmt.Sprintf("ASR backend %s unavailable: %v", name, err))
			continue
		}
		backends = append(backends, provider)
		logger.Info(fmt.Sprintf("ASR backend %s ready", name))
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no usable ASR backend")
	}
	return asr.NewChain(logger, backends...), nil
}

func buildTTS(config *configs.Config) (tts.Provider, error) {
	name := config.SelectedModule["TTS"]
	cfg, ok := config.TTS[name]
	if !ok {
		return nil, fmt.Errorf("TTS entry %s is not configured", name)
	}

	key, err := resolveKey(cfg.APIKeyEnv)
	if err != nil {
		return nil, fmt.Errorf("TTS backend %s: %w", name, err)
	}

	voice := cfg.Voice
	rate := "+0%"
	if profile, ok := config.Voices[config.DefaultLanguage]; ok {
		voice = profile.Voice
		rate = profile.Rate
	}

	return tts.Create(cfg.Type, &tts.Config{
		Type:      cfg.Type,
		Voice:     voice,
		Rate:      rate,
		ModelName: cfg.ModelName,
		APIKey:    key,
		CacheDir:  cfg.CacheDir,
	})
}

// buildBrains assembles the answer fallback chain: configured LLM rungs
// in order, then the web-search summarizer that cannot fail.
func buildBrains(config *configs.Config, logger *utils.Logger, registry *function.Registry, searchClient *search.Client) (*brain.Chain, error) {
	names := config.BrainChain
	if len(names) == 0 {
		if selected := config.SelectedModule["LLM"]; selected != "" {
			names = []string{selected}
		}
	}

	var brains []brain.Brain
	for _, name := range names {
		cfg, ok := config.LLM[name]
		if !ok {
			logger.Warn(fmt.Sprintf("LLM entry %s is not configured, skipping", name))
			continue
		}
		key, err := resolveKey(cfg.APIKeyEnv)
		if err != nil {
			logger.Warn(fmt.Sprintf("brain %s unavailable: %v", name, err))
			continue
		}
		provider, err := llm.Create(cfg.Type, &llm.Config{
			Type:        cfg.Type,
			ModelName:   cfg.ModelName,
			BaseURL:     cfg.BaseURL,
			APIKey:      key,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			TimeoutSecs: cfg.TimeoutSecs,
		})
		if err != nil {
			logger.Warn(fmt.Sprintf("brain %s unavailable: %v", name, err))
			continue
		}
		brains = append(brains, brain.NewProviderBrain(name, provider, registry))
		logger.Info(fmt.Sprintf("brain %s ready (%s)", name, cfg.ModelName))
	}

	// A configured chain where every rung was skipped is a
	// misconfiguration, not something to paper over with search.
	if len(names) > 0 && len(brains) == 0 {
		return nil, fmt.Errorf("none of the configured brains could start (%s); fix the credentials or remove the entries", strings.Join(names, ", "))
	}

	brains = append(brains, brain.NewSearchBrain(searchClient))
	return brain.NewChain(logger, brains...), nil
}

// buildMemory prefers redis when REDIS_URL is set, falling back to the
// relational store on any redis failure.
func buildMemory(db *gorm.DB, logger *utils.Logger) (chat.MemoryInterface, error) {
	if url := os.Getenv("REDIS_URL"); url != "" {
		memory, err := chat.NewRedisMemory(url)
		if err == nil {
			logger.Info("conversation memory backed by redis")
			return memory, nil
		}
		logger.Warn(fmt.Sprintf("redis memory unavailable, using database: %v", err))
	}
	return chat.NewGormMemory(db)
}

func StartWSServer(config *configs.Config, logger *utils.Logger, factory core.SessionFactory, g *errgroup.Group, groupCtx context.Context) (*core.WebSocketServer, error) {
	wsServer := core.NewWebSocketServer(config, logger, factory)

	g.Go(func() error {
		go func() {
			<-groupCtx.Done()
			logger.Info("shutdown signal received, closing websocket server")
			if err := wsServer.Stop(); err != nil {
				logger.Error(fmt.Sprintf("websocket server close failed: %v", err))
			}
		}()

		if err := wsServer.Start(groupCtx); err != nil {
			if groupCtx.Err() != nil {
				return nil
			}
			logger.Error(fmt.Sprintf("websocket server failed: %v", err))
			return err
		}
		return nil
	})

	logger.Info(fmt.Sprintf("websocket server listening on :%d", config.Server.Port))
	return wsServer, nil
}

func StartHttpServer(config *configs.Config, logger *utils.Logger, webService *web.Service, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	if config.Log.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.SetTrustedProxies([]string{"0.0.0.0"})

	apiGroup := router.Group("/api")
	if err := webService.Start(groupCtx, router, apiGroup); err != nil {
		logger.Error(fmt.Sprintf("web service failed to start: %v", err))
		return nil, err
	}

	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(config.Web.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.Info(fmt.Sprintf("web server listening on http://0.0.0.0:%d", config.Web.Port))

		go func() {
			<-groupCtx.Done()
			logger.Info("shutdown signal received, closing web server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error(fmt.Sprintf("web server close failed: %v", err))
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(fmt.Sprintf("web server failed: %v", err))
			return err
		}
		return nil
	})

	return httpServer, nil
}

func GracefulShutdown(cancel context.CancelFunc, logger *utils.Logger, g *errgroup.Group) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	sig := <-sigChan
	logger.Info(fmt.Sprintf("received signal %v, shutting down", sig))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error(fmt.Sprintf("shutdown finished with error: %v", err))
			os.Exit(1)
		}
		logger.Info("all services stopped")
	case <-time.After(15 * time.Second):
		logger.Error("shutdown timed out, forcing exit")
		os.Exit(1)
	}
}

func main() {
	config, logger, err := LoadConfigAndLogger()
	if err != nil {
		fmt.Println("failed to load config or start logger:", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using process environment")
	}

	db, dbType, err := database.InitDB()
	if err != nil {
		logger.Error(fmt.Sprintf("database connection failed: %v", err))
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("database ready (%s)", dbType))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, groupCtx := errgroup.WithContext(ctx)

	if err := startServices(groupCtx, config, logger, db, g); err != nil {
		logger.Error(fmt.Sprintf("failed to start services: %v", err))
		cancel()
		os.Exit(1)
	}

	GracefulShutdown(cancel, logger, g)

	logger.Info("goodbye")
}

func startServices(groupCtx context.Context, config *configs.Config, logger *utils.Logger, db *gorm.DB, g *errgroup.Group) error {
	memory, err := buildMemory(db, logger)
	if err != nil {
		return fmt.Errorf("conversation memory: %w", err)
	}

	taskManager, err := task.NewManager(task.ResourceConfig{}, db, logger)
	if err != nil {
		return fmt.Errorf("task manager: %w", err)
	}

	var documents *rag.Store
	if config.RAG.Enabled {
		key, err := resolveKey(config.RAG.APIKeyEnv)
		if err != nil {
			logger.Warn(fmt.Sprintf("document store disabled: %v", err))
		} else if embedder, err := rag.NewOpenAIEmbedder(key, "", config.RAG.EmbeddingModel); err != nil {
			logger.Warn(fmt.Sprintf("document store disabled: %v", err))
		} else if documents, err = rag.NewStore(groupCtx, config.RAG.QdrantAddr, config.RAG.Collection, embedder, db); err != nil {
			logger.Warn(fmt.Sprintf("document store disabled: %v", err))
			documents = nil
		} else {
			logger.Info(fmt.Sprintf("document store ready (collection %s)", config.RAG.Collection))
		}
	}

	searchClient := search.NewClient()

	registry := function.NewRegistry()
	deps := tools.Deps{
		Search:    searchClient,
		Browser:   tools.OpenBrowser,
		Reminders: taskManager,
	}
	if documents != nil {
		deps.Documents = documents
	}
	if err := tools.RegisterBuiltins(registry, config, deps); err != nil {
		return fmt.Errorf("builtin tools: %w", err)
	}

	mcpManager := mcp.NewManager(&config.MCP, registry, logger)
	if err := mcpManager.Start(groupCtx); err != nil {
		logger.Warn(fmt.Sprintf("MCP servers unavailable: %v", err))
	}
	g.Go(func() error {
		<-groupCtx.Done()
		mcpManager.Stop()
		return nil
	})

	brains, err := buildBrains(config, logger, registry, searchClient)
	if err != nil {
		return fmt.Errorf("brains: %w", err)
	}

	var intent *classifier.Classifier
	if config.Classifier.Enabled {
		apiKey := os.Getenv(config.Classifier.APIKeyEnv)
		intent = classifier.New(config.Classifier.Model, apiKey, logger)
	}

	sharedASR, err := buildASR(config, logger)
	if err != nil {
		return fmt.Errorf("ASR: %w", err)
	}
	sharedTTS, err := buildTTS(config)
	if err != nil {
		return fmt.Errorf("TTS: %w", err)
	}

	// The web dashboard holds one long-lived session; reminders speak
	// through it.
	webSession := core.NewSession(core.SessionOptions{
		Config:    config,
		Logger:    logger,
		ASR:       sharedASR,
		TTS:       sharedTTS,
		Brains:    brains,
		Intent:    intent,
		Memory:    memory,
		SessionID: "web-dashboard",
	})
	// The dashboard session is only the fallback target; each turn
	// routes the language tools to its own session through the context.
	if err := tools.RegisterLanguageTools(registry, webSession); err != nil {
		return fmt.Errorf("language tools: %w", err)
	}

	taskManager.SetAnnouncer(webSession.Announce)
	if err := taskManager.Start(groupCtx); err != nil {
		return fmt.Errorf("task manager start: %w", err)
	}
	if name := config.SelectedModule["TTS"]; name != "" {
		if cacheDir := config.TTS[name].CacheDir; cacheDir != "" {
			taskManager.ScheduleCacheCleanup(cacheDir, time.Hour)
		}
	}
	g.Go(func() error {
		<-groupCtx.Done()
		taskManager.Stop()
		return nil
	})

	// Each websocket client gets its own session with fresh audio
	// adapters so a disconnect cannot tear down another client's turn.
	factory := func() (*core.Session, error) {
		sessionASR, err := buildASR(config, logger)
		if err != nil {
			return nil, err
		}
		sessionTTS, err := buildTTS(config)
		if err != nil {
			return nil, err
		}
		return core.NewSession(core.SessionOptions{
			Config: config,
			Logger: logger,
			ASR:    sessionASR,
			TTS:    sessionTTS,
			Brains: brains,
			Intent: intent,
			Memory: memory,
		}), nil
	}

	if _, err := StartWSServer(config, logger, factory, g, groupCtx); err != nil {
		return fmt.Errorf("websocket server: %w", err)
	}

	webService := web.NewService(config, logger, webSession, documents)
	if _, err := StartHttpServer(config, logger, webService, g, groupCtx); err != nil {
		return fmt.Errorf("web server: %w", err)
	}

	tun := tunnel.NewTunnel(config, logger)
	if err := tun.Start(groupCtx); err != nil {
		logger.Warn(fmt.Sprintf("tunnel unavailable: %v", err))
	}
	g.Go(func() error {
		<-groupCtx.Done()
		return tun.Stop()
	})

	return nil
}
