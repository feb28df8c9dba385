package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/clinical/chestpain-copilot/internal/httpapi"
	"github.com/clinical/chestpain-copilot/pkg/agents"
	"github.com/clinical/chestpain-copilot/pkg/alerts"
	"github.com/clinical/chestpain-copilot/pkg/config"
	"github.com/clinical/chestpain-copilot/pkg/healthtwin"
	"github.com/clinical/chestpain-copilot/pkg/ingest"
	"github.com/clinical/chestpain-copilot/pkg/llm"
	"github.com/clinical/chestpain-copilot/pkg/orchestrator"
	"github.com/clinical/chestpain-copilot/pkg/progress"
	"github.com/clinical/chestpain-copilot/pkg/repository"
	"github.com/clinical/chestpain-copilot/pkg/treatment"
	"github.com/clinical/chestpain-copilot/pkg/triage"
	"github.com/clinical/chestpain-copilot/pkg/vitals"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("refusing to start: %v", err)
	}

	var repo repository.Repository = repository.NewMemoryRepository()
	if cfg.EnableGorm {
		gormRepo, err := repository.OpenGormRepository(cfg.SQLitePath)
		if err != nil {
			log.Printf("repository: sqlite unavailable, falling back to in-memory: %v", err)
		} else {
			repo = gormRepo
		}
	}

	var sink alerts.Sink = alerts.NewMemorySink()
	if cfg.EnableNATS {
		natsSink, err := alerts.DialNATS(cfg.NATSURL, cfg.AlertSubject)
		if err != nil {
			log.Printf("alerts: NATS unavailable, falling back to in-memory sink: %v", err)
		} else {
			sink = natsSink
			defer natsSink.Close()
		}
	}

	var bus progress.Bus = progress.NewMemoryBus()
	if cfg.EnableRedis {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		bus = progress.NewRedisBus(ctx, redisClient)
	}

	var backend llm.Backend = llm.NewHTTPBackend(cfg.MLServiceURL, cfg.LLMModel)
	backend = llm.NewBreakerBackend(backend)

	orch := orchestrator.New(agents.DefaultRegistry())
	triageEngine := triage.NewEngine()
	planner := treatment.NewPlanner()

	twin := healthtwin.NewTwin()
	rings := vitals.NewRegistry(0)
	ingestor := ingest.New(rings, twin, backend, sink, bus)

	handlers := &httpapi.Handlers{
		Orchestrator: orch,
		Triage:       triageEngine,
		Treatment:    planner,
		Ingestor:     ingestor,
		Repository:   repo,
	}

	app := httpapi.New(cfg, handlers, bus)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		log.Println("shutdown initiated")
		_ = app.Shutdown()
	}()

	log.Printf("server starting on port %s", cfg.ServerPort)
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
