package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/neuroscreen-ai/platform/pkg/catalog"
	"github.com/neuroscreen-ai/platform/pkg/common/auth"
	"github.com/neuroscreen-ai/platform/pkg/common/config"
	"github.com/neuroscreen-ai/platform/pkg/common/database"
	kafkabus "github.com/neuroscreen-ai/platform/pkg/common/kafka"
	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/common/middleware"
	"github.com/neuroscreen-ai/platform/pkg/export"
	"github.com/neuroscreen-ai/platform/pkg/ml/linear"
	"github.com/neuroscreen-ai/platform/pkg/observability/metrics"
	"github.com/neuroscreen-ai/platform/pkg/scoring"
	"github.com/neuroscreen-ai/platform/pkg/storage"
)

func main() {
	logger.Init()
	cfg := config.Load()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load feature catalog")
	}

	provider := scoring.NewProvider(cat, cfg.IntegratedPath, export.OutputDelimiter, cfg.ArtifactDir, linear.Options{
		Epochs:       cfg.ModelEpochs,
		LearningRate: cfg.ModelLearningRate,
	})

	var cache *storage.FeatureCache
	if cfg.FeatureCacheEnabled {
		cache = storage.NewFeatureCache(database.GetRedis(), cfg.FeatureCacheTTL)
	}

	var producer *kafkabus.Producer
	if cfg.EventsEnabled {
		producer = kafkabus.NewProducer(cfg.KafkaTopic)
		defer producer.Close()
	}

	service := scoring.NewService(cat, provider, cache, producer)
	handler := scoring.NewHTTPHandler(service)

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/metrics", metrics.Handler).Methods("GET")

	api := router.NewRoute().Subrouter()
	handler.Register(api)
	if cfg.OIDCIssuer != "" {
		oidcAuth, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to configure OIDC")
		}
		api.Use(middleware.Authenticate(oidcAuth))
	}

	chain := middleware.Logging(
		middleware.Recovery(
			middleware.CORS(
				middleware.BodyLimit(cfg.MaxRequestBody)(
					middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)(router)))))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      chain,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Scoring Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Scoring Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Scoring Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
