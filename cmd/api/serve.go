package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"NexusFlow/internal/config"
	"NexusFlow/internal/middleware"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"
	nexusredis "NexusFlow/internal/repository/redis"
	"NexusFlow/internal/router"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	sessionPurgeSchedule = "@every 1h"
	limiterSweepInterval = time.Minute
	limiterIdle          = 10 * time.Minute
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the outbox relayer and counter reconciler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, closeDB, err := a.openDB(true)
	if err != nil {
		return err
	}
	defer closeDB()

	deps := router.Deps{
		DB:   db,
		Log:  log,
		HTTP: cfg.HTTP,
		Auth: cfg.Auth,
	}

	jobs := cron.New()

	// 会话：配置了 redis 用 redis，否则落库并定时清理过期会话；redis 同时提供对账锁
	var locker service.Locker
	if cfg.Redis.Enabled() {
		rc, err := nexusredis.NewClient(cfg.Redis)
		if err != nil {
			return err
		}
		defer rc.Close()
		deps.Sessions = &nexusredis.SessionRepository{RDB: rc}
		locker = &nexusredis.DistLock{RDB: rc, TTL: nexusredis.DefaultLockTTL}
	} else {
		sessions := &rdb.SessionRepository{DB: db}
		deps.Sessions = sessions
		if err := service.NewSessionJanitor(sessions, log).Schedule(ctx, jobs, sessionPurgeSchedule); err != nil {
			return fmt.Errorf("schedule session purge: %w", err)
		}
		log.Info("redis not configured, sessions stored in database")
	}

	deps.Tokens, err = pkg.NewTokenIssuer(cfg.Auth.SessionSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		return err
	}

	if cfg.SMTP.Enabled() {
		deps.Mailer = pkg.NewMailer(pkg.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	if cfg.Storage.Enabled() {
		store, err := pkg.NewMinioStore(ctx, minioConfig(cfg.Storage))
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		deps.Store = store
	} else {
		log.Info("object storage not configured, media upload disabled")
	}

	sender := service.LogSender(log)
	if cfg.Kafka.Enabled() {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(db, sender, cfg.Outbox.BatchSize, cfg.Outbox.Interval, log)
	go relayer.Run(ctx)

	if cfg.Reconcile.Schedule != "" {
		if err := service.NewCounterReconciler(db, locker, log).Schedule(ctx, jobs, cfg.Reconcile.Schedule); err != nil {
			return fmt.Errorf("schedule reconciler: %w", err)
		}
	}
	jobs.Start()
	defer jobs.Stop()

	if cfg.HTTP.RateLimitRPS > 0 {
		deps.Limiter = middleware.NewRateLimiter(float64(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateLimitBurst)
		go deps.Limiter.Run(ctx, limiterSweepInterval, limiterIdle)
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router.InitRouter(deps),
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func minioConfig(s config.StorageConfig) pkg.MinioConfig {
	return pkg.MinioConfig{
		Endpoint:  s.Endpoint,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		Bucket:    s.Bucket,
		Region:    s.Region,
		UseSSL:    s.UseSSL,
		PublicURL: s.PublicURL,
	}
}
