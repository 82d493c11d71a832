package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/archbench/archbench-engine/internal/engine"
	"github.com/archbench/archbench-engine/internal/simd"
	"github.com/archbench/archbench-engine/pkg/config"
	"github.com/archbench/archbench-engine/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Error("archbench daemon exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var grpcAddr string
	var httpAddr string
	var logLevel string

	flag.StringVar(&configPath, "config", "", "path to YAML config (optional)")
	flag.StringVar(&grpcAddr, "grpc-addr", "", "gRPC listen address (overrides config)")
	flag.StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if grpcAddr != "" {
		cfg.GRPCAddr = grpcAddr
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger.SetDefault(logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(cfg.DefaultsTable())
	eng.SetLogger(logger.Default)

	var notifier *simd.Notifier
	if cfg.NATSURL != "" {
		conn, err := simd.ConnectNATS(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		notifier = simd.NewNotifier(conn, cfg.NATSSubject)
		logger.Info("publishing simulation events", "nats_url", cfg.NATSURL, "subject", cfg.NATSSubject)
	}

	service := simd.NewService(eng, simd.NewMetrics(eng.Defaults().Len()), notifier)
	service.SetBatchParallelism(cfg.BatchParallelism)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           simd.NewHTTPServer(service).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC on %s: %w", cfg.GRPCAddr, err)
		}
		grpcServer = grpc.NewServer()
		simd.RegisterSimulationServiceServer(grpcServer, simd.NewSimulationGRPCServer(service))

		g.Go(func() error {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(grpcLis); err != nil {
				return fmt.Errorf("gRPC server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown error", "error", err)
		}
		notifier.Wait()
		return nil
	})

	return g.Wait()
}
