package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	"github.com/heysubinoy/solardb/internal/api"
	"github.com/heysubinoy/solardb/internal/dao"
	"github.com/heysubinoy/solardb/internal/keyschema"
	"github.com/heysubinoy/solardb/internal/store"
	"github.com/heysubinoy/solardb/pkg/config"
	"github.com/heysubinoy/solardb/pkg/kv"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "solar-node",
		Level:      hclog.LevelFromString(cfg.LogLevel),
		JSONFormat: cfg.LogJSON,
	})

	if err := run(cfg, logger); err != nil {
		logger.Error("node stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger hclog.Logger) error {
	backend, raftNode, closeBackend, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	instrumented := store.NewInstrumentedStore(backend)
	repo := dao.New(instrumented, keyschema.New(cfg.KeyPrefix), dao.WithLogger(logger.Named("dao")))

	errCh := make(chan error, 2)

	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
		}

		grpcServer := grpc.NewServer()
		api.RegisterSiteServiceServer(grpcServer, api.NewGRPCServer(repo, logger.Named("grpc")))
		defer grpcServer.GracefulStop()

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			errCh <- grpcServer.Serve(lis)
		}()
	}

	if cfg.HTTPAddr != "" {
		srv := api.NewServer(repo, raftNode, logger.Named("http"))
		if _, port, err := net.SplitHostPort(cfg.HTTPAddr); err == nil {
			srv.HTTPPort = port
		}

		mux := http.NewServeMux()
		srv.RegisterRoutes(mux)
		mux.HandleFunc("/metrics", api.MetricsHandler(instrumented))

		httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(ctx)
		}()

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			errCh <- httpServer.ListenAndServe()
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		return nil
	case err := <-errCh:
		return err
	}
}

// openBackend builds the kv.Store selected by cfg. The returned func
// releases whatever the backend holds open.
func openBackend(cfg *config.Config, logger hclog.Logger) (kv.Store, *raft.Raft, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("using redis backend", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return store.NewRedisStore(client), nil, func() { _ = client.Close() }, nil

	case config.BackendRaft:
		rs := store.NewRaftStore(store.NewMemStore())
		r, err := store.OpenRaft(store.RaftConfig{
			NodeID:    cfg.NodeID,
			Addr:      cfg.RaftAddr,
			DataDir:   cfg.RaftData,
			Bootstrap: cfg.RaftBootstrap,
		}, rs, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		rs.SetRaft(r)
		logger.Info("using raft backend", "node_id", cfg.NodeID, "raft_addr", cfg.RaftAddr)
		return rs, r, func() { _ = r.Shutdown().Error() }, nil

	default:
		logger.Info("using in-memory backend")
		return store.NewMemStore(), nil, func() {}, nil
	}
}
