package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"saweb/api/internal/config"
	"saweb/api/internal/db"
	internalgrpc "saweb/api/internal/grpc"
	internalhttp "saweb/api/internal/http"
	"saweb/api/internal/jobs"
	"saweb/api/internal/logger"
	"saweb/api/internal/metrics"
	"saweb/api/internal/repository"
	"saweb/api/internal/revoke"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Development())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Error("db connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := repository.NewStore(pool)

	var revoked revoke.Store = revoke.Nop{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, revocation checks will fail open", "error", err, "addr", cfg.RedisAddr)
		}
		revoked = revoke.NewRedisStore(client, cfg.TokenTTL)
	}

	server := internalhttp.NewServer(cfg, store, revoked, log, metrics.New())
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
			stop()
		}
	}()

	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		gs, hs, err := internalgrpc.NewHealthServer(cfg.ServiceAuthToken)
		if err != nil {
			log.Error("grpc setup failed", "error", err)
			os.Exit(1)
		}
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Error("grpc listen failed", "error", err, "addr", cfg.GRPCAddr)
			os.Exit(1)
		}
		jobs.StartHealthProbe(ctx, log, cfg.HealthProbeInterval, store, func(healthy bool) {
			internalgrpc.SetServing(hs, healthy)
		})
		go func() {
			log.Info("grpc listening", "addr", cfg.GRPCAddr)
			if err := gs.Serve(lis); err != nil {
				log.Error("grpc server error", "error", err)
			}
		}()
		grpcServer = gs
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}
