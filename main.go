package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/config"
	"github.com/vss-labs/sourcer-engine/pkg/database"
	"github.com/vss-labs/sourcer-engine/pkg/directory"
	"github.com/vss-labs/sourcer-engine/pkg/handlers"
	"github.com/vss-labs/sourcer-engine/pkg/llm"
	"github.com/vss-labs/sourcer-engine/pkg/mailer"
	"github.com/vss-labs/sourcer-engine/pkg/mcp"
	"github.com/vss-labs/sourcer-engine/pkg/mcp/tools"
	"github.com/vss-labs/sourcer-engine/pkg/repositories"
	"github.com/vss-labs/sourcer-engine/pkg/research"
	"github.com/vss-labs/sourcer-engine/pkg/retry"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)))

	ctx := context.Background()

	db, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	outreachProfile, err := services.LoadOutreachProfile(cfg.OutreachProfilePath)
	if err != nil {
		logger.Fatal("Failed to load outreach profile",
			zap.String("path", cfg.OutreachProfilePath),
			zap.Error(err))
	}

	generationClient, err := newGenerationClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create generation client", zap.Error(err))
	}

	researchService := newResearchService(cfg, logger)

	directoryClient, err := directory.NewClient(&directory.Config{
		BaseURL:        cfg.Directory.BaseURL,
		RequestsPerSec: cfg.Directory.RequestsPerSec,
		Burst:          cfg.Directory.Burst,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create directory client", zap.Error(err))
	}

	// Repositories
	profileRepo := repositories.NewProfileRepository(db)
	sentEmailRepo := repositories.NewSentEmailRepository(db)

	// Services
	keyResolver := services.NewDirectoryKeyResolver(profileRepo, cfg.Directory.APIKey, logger)
	interpreter := services.NewQueryInterpreter(generationClient, logger)
	variants := services.NewNameVariantGenerator(generationClient, logger)
	interestService := services.NewInterestService(generationClient, researchService, outreachProfile, logger)
	companySearch := services.NewCompanySearchService(interpreter, directoryClient, researchService, keyResolver, logger)
	peopleLookup := services.NewPeopleLookupService(variants, directoryClient, keyResolver, cfg.Pipeline.MaxNameVariants, logger)
	unlockService := services.NewUnlockService(directoryClient, researchService, interestService, keyResolver, cfg.Pipeline.MaxConcurrentUnlocks, logger)
	templateService := services.NewTemplateService(generationClient, interestService, logger)

	// Authentication
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(jwksClient, logger)

	mux := http.NewServeMux()

	// HTTP API
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewCompanySearchHandler(companySearch, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewPeopleLookupHandler(peopleLookup, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewUnlockHandler(unlockService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewInterestHandler(interestService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewTemplateHandler(templateService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewProfileHandler(profileRepo, templateService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewEmailHandler(mailer.NewGmailTransport(logger), sentEmailRepo, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewDirectoryUsageHandler(directoryClient, keyResolver, logger).RegisterRoutes(mux, authMiddleware)

	// MCP transport for agent clients
	mcpServer := mcp.NewServer("sourcer-engine", cfg.Version, logger)
	tools.RegisterProspectingTools(mcpServer.MCP(), &tools.ProspectingToolDeps{
		CompanySearch: companySearch,
		PeopleLookup:  peopleLookup,
		Unlock:        unlockService,
		Templates:     templateService,
		Profiles:      profileRepo,
		Logger:        logger,
	})
	mux.Handle("/mcp", authMiddleware.RequireAuth(mcpServer.NewStreamableHTTPServer().ServeHTTP))

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting sourcer-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// connectDatabase retries the initial connection; the database container may
// still be coming up when the service starts.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*database.DB, error) {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = 5
	retryCfg.InitialDelay = time.Second

	return retry.DoWithResult(ctx, retryCfg, func() (*database.DB, error) {
		db, err := database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		})
		if err != nil {
			logger.Warn("Database connection attempt failed", zap.Error(err))
		}
		return db, err
	})
}

// runMigrations uses a separate database/sql connection; golang-migrate
// drives a *sql.DB, not a pgx pool.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	db, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	return database.RunMigrations(db, cfg.MigrationsPath, logger)
}

func newGenerationClient(cfg *config.Config, logger *zap.Logger) (llm.CompletionClient, error) {
	switch cfg.LLMProvider {
	case "anthropic":
		return llm.NewAnthropicClient(&llm.Config{
			Model:     cfg.Anthropic.Model,
			APIKey:    cfg.Anthropic.APIKey,
			MaxTokens: cfg.Anthropic.MaxTokens,
		}, logger)
	default:
		return llm.NewClient(&llm.Config{
			Endpoint:  cfg.OpenRouter.BaseURL,
			Model:     cfg.OpenRouter.Model,
			APIKey:    cfg.OpenRouter.APIKey,
			MaxTokens: cfg.OpenRouter.MaxTokens,
		}, logger)
	}
}

// newResearchService degrades to a no-provider service when the research
// endpoint has no key; searches then run directory-only.
func newResearchService(cfg *config.Config, logger *zap.Logger) research.Service {
	if !cfg.Research.IsAvailable() {
		logger.Warn("Research provider not configured; web research disabled")
		return research.NewService(nil, logger)
	}

	client, err := llm.NewClient(&llm.Config{
		Endpoint:  cfg.Research.BaseURL,
		Model:     cfg.Research.Model,
		APIKey:    cfg.Research.APIKey,
		MaxTokens: cfg.Research.MaxTokens,
	}, logger)
	if err != nil {
		logger.Warn("Failed to create research client; web research disabled", zap.Error(err))
		return research.NewService(nil, logger)
	}

	return research.NewService(client, logger)
}
