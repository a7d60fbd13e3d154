package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/vogiaan1904/ticketbottle-dashboard/config"
	grpcDelivery "github.com/vogiaan1904/ticketbottle-dashboard/internal/delivery/grpc"
	httpDelivery "github.com/vogiaan1904/ticketbottle-dashboard/internal/delivery/http"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/infra/redis"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/remote"
	repo "github.com/vogiaan1904/ticketbottle-dashboard/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/service"
	pkgGrpc "github.com/vogiaan1904/ticketbottle-dashboard/pkg/grpc"
	pkgKafka "github.com/vogiaan1904/ticketbottle-dashboard/pkg/kafka"
	pkgLog "github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})
	defer l.Sync()

	instance := instanceID()
	ctx = l.With(ctx, "instance", instance)

	// Ticket service client
	cli := remote.NewHTTPClient(cfg.Remote, l)
	if h, err := cli.GetHealth(ctx); err != nil {
		l.Warnf(ctx, "Ticket service not reachable yet at %s: %v", cfg.Remote.BaseURL, err)
	} else {
		l.Infof(ctx, "Ticket service is %s, database=%s", h.Status, h.DatabaseConnection)
	}

	// Lifecycle event producer
	var prod producer.Producer
	if cfg.Kafka.Enabled {
		kSyncProd, err := pkgKafka.NewProducer(pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
			ClientID:     "ticketbottle-dashboard",
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		prod = producer.NewProducer(kSyncProd, instance, l)
	} else {
		prod = producer.NewNoopProducer()
	}
	defer func() {
		if err := prod.Close(); err != nil {
			l.Errorf(ctx, "Failed to close Kafka producer: %v", err)
		}
	}()

	// Snapshot fan-out
	var snapPub service.SnapshotPublisher
	if cfg.Redis.Enabled {
		redisCli, err := redis.Connect(ctx, cfg.Redis, l)
		if err != nil {
			l.Fatalf(ctx, "Failed to connect to Redis: %v", err)
		}
		defer redis.Disconnect(context.Background(), redisCli, l)
		snapPub = repo.NewSnapshotPublisher(redisCli, cfg.Redis.Channel, 10*cfg.Dashboard.PollInterval, l)
	}

	healthSvc := grpcDelivery.NewHealthService(l)

	// Initialize services
	logs := service.NewLogAggregator(cfg.Dashboard.AutoScroll)
	store := service.NewConfigurationStore(cli, l)
	sched := service.NewOperationScheduler(cli, l, service.SchedulerConfig{
		TimeUnit:      cfg.Dashboard.TimeUnit,
		VendorCount:   cfg.Dashboard.VendorCount,
		CustomerCount: cfg.Dashboard.CustomerCount,
	})
	syncer := service.NewStatusSynchronizer(cli, logs, snapPub, l, service.SynchronizerConfig{
		PollInterval:   cfg.Dashboard.PollInterval,
		OnHealthChange: healthSvc.SetSyncHealthy,
	})
	dashSvc := service.NewDashboardService(store, sched, syncer, logs, cli, prod, l)

	if err := dashSvc.Init(ctx); err != nil {
		l.Fatalf(ctx, "Failed to initialize dashboard: %v", err)
	}

	// gRPC health server
	gRpcSrv := pkgGrpc.NewServer(l)
	healthSvc.Register(gRpcSrv)

	lnr, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRpcPort))
	if err != nil {
		l.Fatalf(ctx, "gRPC server failed to listen: %v", err)
	}

	// HTTP server
	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      httpDelivery.NewRouter(httpDelivery.NewHandler(dashSvc, l), l),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Infof(ctx, "gRPC server is listening on port: %d", cfg.Server.GRpcPort)
		return gRpcSrv.Serve(lnr)
	})

	g.Go(func() error {
		l.Infof(ctx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		l.Info(ctx, "Server shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Dashboard.ShutdownTimeout)
		defer cancel()

		// Agents are stopped before the servers so no timer outlives the process.
		dashSvc.Close(shutdownCtx)
		healthSvc.Shutdown()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			l.Errorf(ctx, "HTTP server shutdown: %v", err)
		}
		gRpcSrv.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Errorf(ctx, "Server stopped with error: %v", err)
	}

	l.Info(ctx, "Server exited")
}

func instanceID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host + "-" + uuid.NewString()[:8]
	}
	return uuid.NewString()
}
