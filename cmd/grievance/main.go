package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	pkgconfig "github.com/tendant/grievance-portal/pkg/config"
	"github.com/tendant/grievance-portal/pkg/grievance"
	grievanceapi "github.com/tendant/grievance-portal/pkg/grievance/api"
	"github.com/tendant/grievance-portal/pkg/identity"
	"github.com/tendant/grievance-portal/pkg/metrics"
	"github.com/tendant/grievance-portal/pkg/notification"
	"github.com/tendant/grievance-portal/pkg/partner"
	"github.com/tendant/grievance-portal/pkg/router"
	"github.com/tendant/grievance-portal/pkg/verification"
	verificationapi "github.com/tendant/grievance-portal/pkg/verification/api"
)

type Config struct {
	// Application
	FrontendURL string `env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	Email        pkgconfig.EmailConfig
	Auth         pkgconfig.AuthConfig
	CORS         pkgconfig.CORSConfig
	PartnerStore pkgconfig.PartnerStoreConfig
	TokenStore   pkgconfig.TokenStoreConfig

	Server pkgconfig.ServerConfig
}

func (c *Config) validate() error {
	return pkgconfig.Validate(
		func() pkgconfig.ValidationErrors {
			if err := pkgconfig.RequireURL("FRONTEND_URL", c.FrontendURL); err != nil {
				return pkgconfig.ValidationErrors{*err}
			}
			return nil
		},
		pkgconfig.ValidateEmailConfig(c.Email),
		pkgconfig.ValidateAuthConfig(c.Auth),
		pkgconfig.ValidateStoreConfig(c.PartnerStore, c.TokenStore),
		pkgconfig.ValidateServerConfig(c.Server),
	)
}

func main() {
	// Setup logger
	var level slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     &level,
	}))
	slog.SetDefault(logger)

	// Load .env file
	loadEnvFile()

	// Load configuration
	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		slog.Warn("Invalid LOG_LEVEL, using info", "value", config.LogLevel)
	}
	if err := config.validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Grievance Portal",
		"frontend", config.FrontendURL,
		"email_provider", config.Email.Provider,
		"auth_mode", config.Auth.Mode,
		"host", config.Server.Host,
		"port", config.Server.Port,
		"partner_store", config.PartnerStore.Type,
		"token_store", config.TokenStore.Type)

	ctx := context.Background()

	nm, err := newNotificationManager(ctx, &config)
	if err != nil {
		slog.Error("Failed to create notification manager", "error", err)
		os.Exit(1)
	}

	partners, closePartners, err := newPartnerRepository(ctx, config.PartnerStore)
	if err != nil {
		slog.Error("Failed to create partner store", "type", config.PartnerStore.Type, "error", err)
		os.Exit(1)
	}
	defer closePartners()

	tokens, err := newTokenStore(ctx, config.TokenStore)
	if err != nil {
		slog.Error("Failed to create token store", "type", config.TokenStore.Type, "error", err)
		os.Exit(1)
	}

	verifier, err := newVerifier(ctx, config.Auth)
	if err != nil {
		slog.Error("Failed to create identity verifier", "mode", config.Auth.Mode, "error", err)
		os.Exit(1)
	}

	// Validated above
	ttl, _ := time.ParseDuration(config.TokenStore.TTL)

	m := metrics.New()
	ledger := verification.NewLedger(tokens, verification.WithTokenTTL(ttl))
	verificationService := verification.NewService(ledger, partners, nm, config.FrontendURL, verification.WithMetrics(m))
	grievanceService := grievance.NewService(partners, nm, grievance.WithMetrics(m))

	sweeper, err := startSweeper(config.TokenStore.SweepSchedule, verificationService)
	if err != nil {
		slog.Error("Invalid token sweep schedule", "schedule", config.TokenStore.SweepSchedule, "error", err)
		os.Exit(1)
	}
	if sweeper != nil {
		defer sweeper.Stop()
	}

	server := router.New(router.Config{
		AppConfig:          config.Server.ToAppConfig(),
		AllowedOrigins:     config.CORS.AllowedOrigins,
		VerificationHandle: verificationapi.NewHandle(verificationService),
		GrievanceHandle:    grievanceapi.NewHandle(grievanceService),
		Verifier:           verifier,
		Metrics:            m,
	})

	slog.Info("Grievance Portal ready", "cors_origins", config.CORS.AllowedOrigins, "token_ttl", ttl)
	server.Run()
}

func newNotificationManager(ctx context.Context, config *Config) (*notification.NotificationManager, error) {
	var transport notification.NotificationManagerOption
	switch config.Email.Provider {
	case "smtp":
		transport = notification.WithSMTP(config.Email.ToSMTPConfig())
	case "ses":
		transport = notification.WithSES(ctx, config.Email.ToSESConfig())
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", config.Email.Provider)
	}
	return notification.NewNotificationManagerWithOptions(config.FrontendURL, transport, notification.WithDefaultTemplates())
}

// newPartnerRepository opens the configured backend. The returned func releases its connections.
func newPartnerRepository(ctx context.Context, config pkgconfig.PartnerStoreConfig) (partner.PartnerRepository, func(), error) {
	repoConfig := partner.RepositoryConfig{
		DataDir: config.DataDir,
		Cache:   config.CacheOn,
	}
	closer := func() {}

	switch config.Type {
	case "postgres":
		pool, err := pgxpool.New(ctx, config.Postgres.ToDatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres %s:%d/%s: %w", config.Postgres.Host, config.Postgres.Port, config.Postgres.Database, err)
		}
		repoConfig.Pool = pool
		closer = pool.Close
	case "mongo":
		client, collection, err := partner.ConnectMongo(ctx, config.Mongo.URI, config.Mongo.Database, config.Mongo.Collection)
		if err != nil {
			return nil, nil, err
		}
		repoConfig.Collection = collection
		closer = func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(shutdownCtx); err != nil {
				slog.Warn("Failed to disconnect from MongoDB", "error", err)
			}
		}
	}

	repo, err := partner.NewPartnerRepository(ctx, config.Type, repoConfig)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return repo, closer, nil
}

func newTokenStore(ctx context.Context, config pkgconfig.TokenStoreConfig) (verification.TokenStore, error) {
	switch config.Type {
	case "memory":
		return verification.NewMemoryTokenStore(), nil
	case "redis":
		client, err := verification.NewRedisClient(ctx, config.Redis.URL, config.Redis.Password)
		if err != nil {
			return nil, err
		}
		return verification.NewRedisTokenStore(client, config.Redis.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported token store type: %s", config.Type)
	}
}

func newVerifier(ctx context.Context, config pkgconfig.AuthConfig) (identity.Verifier, error) {
	switch config.Mode {
	case "secret":
		return identity.NewSecretVerifier(config.Secret, config.Issuer, config.Audience)
	case "jwks":
		return identity.NewJWKSVerifier(ctx, config.JWKSURL, config.ResolvedIssuer(), config.ResolvedAudience())
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", config.Mode)
	}
}

// startSweeper schedules the expired-token sweep. An empty schedule disables it.
func startSweeper(schedule string, service *verification.Service) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := service.SweepExpired(ctx); err != nil {
			slog.Warn("Expired token sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// loadEnvFile loads .env from the executable directory or the working directory
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		return
	}

	envFile := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, _ := os.Getwd()
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Debug("No .env file found (using environment variables or defaults)")
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	}
}
