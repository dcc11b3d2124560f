package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/bazario/chat-service/internal/infrastructure/auth"
	"github.com/bazario/chat-service/internal/infrastructure/configs"
	"github.com/bazario/chat-service/internal/infrastructure/events"
	"github.com/bazario/chat-service/internal/infrastructure/logging"
	"github.com/bazario/chat-service/internal/infrastructure/messaging"
	"github.com/bazario/chat-service/internal/infrastructure/ratelimiter"
	"github.com/bazario/chat-service/internal/infrastructure/tracing"
	"github.com/bazario/chat-service/internal/infrastructure/ws"
	"github.com/bazario/chat-service/internal/persistence/db"
	"github.com/bazario/chat-service/internal/persistence/repository"
	"github.com/bazario/chat-service/internal/presentation/api"
	"github.com/bazario/chat-service/internal/presentation/handler/chat"
	"github.com/bazario/chat-service/internal/presentation/handler/health"
	"github.com/bazario/chat-service/internal/presentation/handler/messages"
)

const (
	serviceName = "chat-service"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	configPath := configs.DeterminePath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewLogger(cfg.Logging)

	storeCfg := db.NewSQLiteDefaultConfig()
	if cfg.Store.DSN != "" {
		storeCfg.DSN = cfg.Store.DSN
	}

	conn, err := db.Open(ctx, storeCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	messageRepository := repository.NewMessageRepository(conn)
	auditRepository := repository.NewChatAuditLogRepository(conn)

	resolver := auth.NewTokenResolver(cfg.Auth.JWTSecret)

	var publisher ws.Publisher
	if cfg.AMQP.Enabled {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.AMQP.URI)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitmq.Close()

		log.Println("Starting RabbitMQ connection")

		publisher = events.NewChatPublisher(rabbitmq)

		auditConsumer := events.NewAuditConsumer(rabbitmq)
		go auditConsumer.Listen()
	}

	registry := ws.NewRegistry(logger)
	broadcaster := ws.NewBroadcaster(registry, messageRepository, resolver, auditRepository, publisher, logger)

	chatHandler := chat.NewHandler(broadcaster, cfg.Auth, cfg.Chat, cfg.HTTP.AllowedOrigins)
	healthHandler := health.NewHandler()
	messageHandler := messages.NewHandler(messageRepository)

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})
	app := api.NewApplication(*cfg, chatHandler, healthHandler, messageHandler, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
