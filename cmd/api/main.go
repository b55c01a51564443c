package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/solacelabs/solace/backend/internal/config"
	"github.com/solacelabs/solace/backend/internal/handler"
	"github.com/solacelabs/solace/backend/internal/service/classifier"
	"github.com/solacelabs/solace/backend/internal/service/embedding"
	"github.com/solacelabs/solace/backend/internal/service/orchestrator"
	"github.com/solacelabs/solace/backend/internal/service/suggestion"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Warn("no .env file loaded, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	classifierSvc := buildClassifier(cfg.Classifier)
	embeddingSvc := buildEmbedding(ctx, cfg.Embedding)
	pipeline, err := buildPipeline(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to build suggestion pipeline")
	}

	orchestratorSvc := orchestrator.NewService(classifierSvc, embeddingSvc, pipeline)
	router := handler.NewRouter(orchestratorSvc)

	startServer(ctx, cfg.Server, router)
}

func buildClassifier(cfg config.ClassifierConfig) *classifier.Service {
	if cfg.Enabled() {
		logrus.Info("emotion classifier using hosted inference backend")
		return classifier.NewService(classifier.NewHostedBackend(cfg))
	}
	logrus.Info("classifier credential not configured, using built-in lexicon backend")
	return classifier.NewService(classifier.NewLexiconBackend())
}

func buildEmbedding(ctx context.Context, cfg config.EmbeddingConfig) *embedding.Service {
	if !cfg.Enabled() {
		logrus.Info("embedding credential not configured, skipping embedding step")
		return embedding.NewService(nil, 0)
	}

	embedder, err := cfg.NewEmbedder(ctx)
	if err != nil {
		logrus.WithError(err).Warn("failed to initialize embedder, continuing without embeddings")
		return embedding.NewService(nil, 0)
	}
	logrus.Info("embedding provider initialized")
	return embedding.NewService(embedder, cfg.Timeout)
}

func buildPipeline(ctx context.Context, cfg *config.Config) (*suggestion.Pipeline, error) {
	var primary, secondary einomodel.ChatModel

	if cfg.Primary.Enabled() {
		chatModel, err := cfg.Primary.NewArkChatModel(ctx)
		if err != nil {
			logrus.WithError(err).Warn("primary suggestion provider failed to initialize, tier disabled")
		} else {
			primary = chatModel
			logrus.Info("primary suggestion provider initialized")
		}
	} else {
		logrus.Info("primary suggestion credential not configured, tier disabled")
	}

	if cfg.Secondary.Enabled() {
		chatModel, err := cfg.Secondary.NewOpenAIChatModel(ctx)
		if err != nil {
			logrus.WithError(err).Warn("secondary suggestion provider failed to initialize, tier disabled")
		} else {
			secondary = chatModel
			logrus.Info("secondary suggestion provider initialized")
		}
	} else {
		logrus.Info("secondary suggestion credential not configured, tier disabled")
	}

	return suggestion.NewPipeline(ctx, suggestion.Config{
		ContextTurns:     cfg.Pipeline.ContextTurns,
		PrimaryTimeout:   cfg.Primary.Timeout,
		SecondaryTimeout: cfg.Secondary.Timeout,
	}, primary, secondary)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logrus.WithField("addr", serverCfg.Addr).Info("solace backend listening")
	if err := runServer(ctx, srv); err != nil {
		logrus.WithError(err).Fatal("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
