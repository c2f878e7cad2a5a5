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

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"hackathon-backend/config"
	"hackathon-backend/events"
	"hackathon-backend/handler"
	"hackathon-backend/internal/live"
	"hackathon-backend/lock"
	"hackathon-backend/log"
	"hackathon-backend/mail"
	"hackathon-backend/service"
	"hackathon-backend/storage"
	"hackathon-backend/store"
)

const (
	submissionsBucket = "submissions"
	shutdownTimeout   = 10 * time.Second
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log.EnsureLogger(cfg.Production())
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Logger.Fatal("failed connecting to database", zap.Error(err))
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		log.Logger.Fatal("database not reachable", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Logger.Warn("database disconnect", zap.Error(err))
		}
	}()

	stores, err := store.NewMongo(connectCtx, client, cfg.Mongo.Database)
	if err != nil {
		log.Logger.Fatal("failed preparing collections", zap.Error(err))
	}
	bucket := storage.NewGridFS(client.Database(cfg.Mongo.Database), submissionsBucket, cfg.App.BaseURL)

	var mailer mail.Sender = mail.LogSender{}
	if cfg.Mail.Domain != "" && cfg.Mail.APIKey != "" {
		mailer = mail.NewMailgun(cfg.Mail.Domain, cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.EU)
	} else {
		log.Logger.Warn("mailgun not configured, emails will only be logged")
	}

	hub := live.NewHub()
	var publisher events.Publisher = hub
	if cfg.RabbitMQ.ConnString != "" {
		bus, err := events.Dial(cfg.RabbitMQ.ConnString)
		if err != nil {
			log.Logger.Fatal("failed connecting to rabbitmq", zap.Error(err))
		}
		defer bus.Close()

		stream, err := bus.Consume(ctx)
		if err != nil {
			log.Logger.Fatal("failed consuming events", zap.Error(err))
		}
		go hub.Run(ctx, stream)
		publisher = bus
	}

	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		if err := rdb.Ping(connectCtx).Err(); err != nil {
			log.Logger.Fatal("redis not reachable", zap.Error(err))
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb)
	}

	svc := service.New(stores, mailer, bucket, publisher, locker, service.Options{
		Capacity:       cfg.Event.TeamCapacity,
		ContactURL:     cfg.App.ContactURL,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})
	auth := service.NewAuthenticator(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash, cfg.Admin.JWTKey)
	h := handler.New(svc, auth, bucket, hub, handler.Options{
		CORSOrigins:    cfg.App.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Ready: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	})

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_zap.UnaryServerInterceptor(log.Logger),
			grpc_recovery.UnaryServerInterceptor(),
		)),
		grpc.StreamInterceptor(grpc_middleware.ChainStreamServer(
			grpc_zap.StreamServerInterceptor(log.Logger),
			grpc_recovery.StreamServerInterceptor(),
		)),
	)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%s", cfg.App.GRPCPort))
	if err != nil {
		log.Logger.Fatal("failed to listen", zap.Error(err))
	}
	go func() {
		log.Logger.Info(fmt.Sprintf("Health listening on port: %s", cfg.App.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			log.Logger.Error("couldn't serve grpcServer", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", cfg.App.Port),
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Logger.Info(fmt.Sprintf("Listening on port: %s", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("couldn't serve http", zap.Error(err))
		}
	}()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	<-ctx.Done()
	log.Logger.Info("shutting down")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Logger.Warn("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
}
