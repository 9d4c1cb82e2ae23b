package app

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zhcet-ai/advisor-engine/internal/clients/gemini"
	"github.com/zhcet-ai/advisor-engine/internal/observability"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/retrieval"
	"github.com/zhcet-ai/advisor-engine/internal/vector"
)

type App struct {
	Log       *logger.Logger
	Cfg       Config
	Registry  *prometheus.Registry
	Metrics   *observability.Metrics
	Gemini    gemini.Client
	Index     *vector.Index
	Retriever retrieval.Retriever
	Services  Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	llm, err := gemini.NewClient(log, metrics)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	index, err := vector.Load(cfg.PolicyIndexPath)
	if err != nil {
		log.Warn("Policy index unavailable, starting empty", "path", cfg.PolicyIndexPath, "error", err)
		index, err = vector.New(cfg.EmbedDim)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init policy index: %w", err)
		}
	}
	metrics.SetIndexSize(index.Len())

	ret, err := retrieval.NewRetriever(index, llm, metrics, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init retriever: %w", err)
	}

	serviceset, err := wireServices(llm, ret, metrics, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	return &App{
		Log:       log,
		Cfg:       cfg,
		Registry:  registry,
		Metrics:   metrics,
		Gemini:    llm,
		Index:     index,
		Retriever: ret,
		Services:  serviceset,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
