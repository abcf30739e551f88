package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"wichat/internal/config"
	"wichat/internal/http/http_server"
	"wichat/internal/redis/redis_client"
	"wichat/internal/redis/roomevents"
	"wichat/internal/rooms"
	"wichat/internal/services/streamtoken"
	"wichat/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.LogFormat == "json" {
		if prod, err := zap.NewProduction(); err == nil {
			Log = prod
			zap.ReplaceGlobals(Log)
		}
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))
	if cfg.StreamAPISecret == "" {
		Log.Warn("STREAM_API_SECRET is empty, stream token requests will fail")
	}

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Optional Redis lifecycle events
	managerOpts := []rooms.Option{
		rooms.WithGracePeriod(cfg.RoomGracePeriod),
		rooms.WithMeetingIDLength(cfg.MeetingIDLength),
	}
	if cfg.RedisEventsEnabled {
		redisClient, err := redis_client.NewRedisClient(ctx, cfg.RedisHost, int(cfg.RedisPort))
		if err != nil {
			Log.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()
		Log.Debug("Redis client created successfully")

		publisher := roomevents.NewPublisher(redisClient, 0)
		go publisher.Run(ctx)
		managerOpts = append(managerOpts, rooms.WithEventSink(publisher))
	}

	// 4. Rooms, connections and presence fan-out
	store := rooms.NewStore()
	hub := ws.NewHub()
	manager := rooms.NewManager(store, rooms.NewRegistry(), ws.NewPresenceBroadcaster(store, hub), managerOpts...)
	defer manager.Close()

	// 5. Stream token issuer
	tokens := streamtoken.NewIssuer(cfg.StreamAPISecret, cfg.StreamTokenTTL)

	// 6. Initialize the WS server
	wsSrv := ws.NewWsServer(hub, manager, store, ws.Options{
		ReadLimit:  cfg.WsReadLimit,
		SendBuffer: cfg.WsSendBuffer,
	})

	// 7. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, hub, wsSrv, manager, tokens)
	go func() {
		<-ctx.Done()
		_ = httpServer.Dispose()
	}()
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
	Log.Info("shutdown complete")
}
