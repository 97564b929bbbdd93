// Command vitalityd is the VitalityPact service.
// It serves the HTTP API, the device bridge webhook, and a health check.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/vitalitypact/vitalitypact/internal/api"
	"github.com/vitalitypact/vitalitypact/internal/backend"
	"github.com/vitalitypact/vitalitypact/internal/ingestion"
	"github.com/vitalitypact/vitalitypact/internal/platform/logger"
	"github.com/vitalitypact/vitalitypact/internal/webhook"
	"github.com/vitalitypact/vitalitypact/pkg/config"
	"github.com/vitalitypact/vitalitypact/pkg/dialogue"
	"github.com/vitalitypact/vitalitypact/pkg/health"
)

type serverConfig struct {
	Port          string
	LogMode       string
	WebhookSecret string
	WindowDays    int
	RetentionDays int
	Storage       config.StorageConfig
}

func loadConfig() serverConfig {
	return serverConfig{
		Port:          envOrDefault("PORT", "8080"),
		LogMode:       envOrDefault("LOG_MODE", "prod"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		WindowDays:    envInt("HISTORY_WINDOW_DAYS", ingestion.DefaultWindowDays),
		RetentionDays: envInt("HISTORY_RETENTION_DAYS", health.RetentionDays),
		Storage: config.StorageConfig{
			Backend:     envOrDefault("STORAGE_BACKEND", "local"),
			Dir:         envOrDefault("LOCAL_STORAGE_PATH", "/tmp/vitalitypact-data"),
			Bucket:      os.Getenv("STORAGE_BUCKET"),
			Prefix:      os.Getenv("STORAGE_PREFIX"),
			Region:      os.Getenv("AWS_REGION"),
			Endpoint:    os.Getenv("S3_ENDPOINT"),
			RedisAddr:   os.Getenv("REDIS_ADDR"),
			DatabaseURL: envOrDefault("DATABASE_URL", "postgres://localhost:5432/vitalitypact?sslmode=disable"),
		},
	}
}

func main() {
	cfg := loadConfig()

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := backend.Open(ctx, cfg.Storage, cfg.RetentionDays, zlog)
	if err != nil {
		zlog.Error("open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	svc := ingestion.NewService(stores.Backend,
		ingestion.WithLogger(zlog),
		ingestion.WithWindowDays(cfg.WindowDays),
		ingestion.WithGenerator(newGenerator(zlog)),
	)
	cache := api.NewAnalysisCacheFromEnv()
	apiHandler := api.NewHandler(svc, cache, zlog)

	if cfg.WebhookSecret == "" {
		zlog.Warn("WEBHOOK_SECRET is empty; device bridge pushes will be rejected")
	}
	webhookHandler := webhook.NewHandler([]byte(cfg.WebhookSecret), svc, zlog, cache.Invalidate)

	// Set up HTTP routes
	mux := http.NewServeMux()
	apiHandler.RegisterRoutes(mux)
	mux.Handle("POST /v1/webhooks/metrics", webhookHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.RequestLogger(zlog)(api.CORS(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting vitalityd", "port", cfg.Port, "storage", stores.Name)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Error("listen", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown", "error", err)
	}
}

// newGenerator uses the hosted model when VITALITY_LLM_API_KEY is set and
// local lines otherwise.
func newGenerator(zlog *logger.Logger) *dialogue.Generator {
	clientCfg := dialogue.ConfigFromEnv()
	if clientCfg.APIKey == "" {
		zlog.Info("dialogue model disabled, using local lines")
		return dialogue.NewGenerator(nil, zlog, nil)
	}
	client, err := dialogue.NewClient(clientCfg, zlog)
	if err != nil {
		zlog.Warn("dialogue client disabled", "error", err)
		return dialogue.NewGenerator(nil, zlog, nil)
	}
	return dialogue.NewGenerator(client, zlog, nil)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
