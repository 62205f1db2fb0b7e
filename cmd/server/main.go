package main

//	@title			Client Portal API
//	@version		1.0
//	@description	Project portal for agency clients with GitHub repository insight.
//	@schemes		http https
//	@BasePath		/api/v1

//  Session issued by /auth/signin, sent as cookie or bearer
//	@securityDefinitions.apikey	SessionAuth
//	@in							header
//	@name						Authorization
//	@description				Session token (e.g., "Bearer eyJhbGciOi...")

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appforge/clientportal/internal/bootstrap"
	"github.com/appforge/clientportal/internal/config"
	"github.com/appforge/clientportal/internal/infra/cache"
	dbpkg "github.com/appforge/clientportal/internal/infra/db"
	"github.com/appforge/clientportal/internal/infra/queue"
	"github.com/appforge/clientportal/internal/modules/handler"
	"github.com/appforge/clientportal/internal/modules/service"
	"github.com/appforge/clientportal/internal/router"
	"github.com/appforge/clientportal/internal/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// local .env is optional
	_ = godotenv.Load()

	// build dependency injection container
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	if cfg.Auth.JWTSecret == "" {
		log.Sugar().Fatal("auth.jwtSecret is required (set SESSION_SECRET)")
	}
	if !cfg.Configured() {
		log.Sugar().Warnw("portal is not fully configured, see /api/v1/setup/status",
			"database", cfg.Database.DSN != "", "github", cfg.GitHubConfigured())
	}

	db := do.MustInvoke[*gorm.DB](inj)
	rdb := do.MustInvoke[*redis.Client](inj)

	// Setup OpenTelemetry tracing (using configuration system)
	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Sugar().Warnw("failed to setup tracing, continuing without tracing", "err", err)
	} else if tp != nil {
		log.Sugar().Infow("OpenTelemetry tracing enabled", "endpoint", cfg.Telemetry.OtlpEndpoint)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(ctx); err != nil {
				log.Sugar().Errorw("failed to shutdown tracer", "err", err)
			}
		}()

		// Register GORM OpenTelemetry plugin after tracer provider is set
		if err := dbpkg.RegisterOpenTelemetryPlugin(db); err != nil {
			log.Sugar().Warnw("failed to register GORM OpenTelemetry plugin, continuing without database tracing", "err", err)
		} else {
			log.Sugar().Info("GORM OpenTelemetry plugin registered")
		}

		// Register Redis OpenTelemetry plugin after tracer provider is set
		if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
			log.Sugar().Warnw("failed to register Redis OpenTelemetry plugin, continuing without Redis tracing", "err", err)
		} else {
			log.Sugar().Info("Redis OpenTelemetry plugin registered")
		}
	}

	// init gin
	gin.SetMode(cfg.App.Env)

	engine := router.NewRouter(router.RouterDeps{
		Config:           cfg,
		Log:              log,
		Auth:             do.MustInvoke[service.AuthService](inj),
		AuthHandler:      do.MustInvoke[*handler.AuthHandler](inj),
		ProjectHandler:   do.MustInvoke[*handler.ProjectHandler](inj),
		QuoteHandler:     do.MustInvoke[*handler.QuoteHandler](inj),
		UpdateHandler:    do.MustInvoke[*handler.UpdateHandler](inj),
		MilestoneHandler: do.MustInvoke[*handler.MilestoneHandler](inj),
		FeedbackHandler:  do.MustInvoke[*handler.FeedbackHandler](inj),
		GitHubHandler:    do.MustInvoke[*handler.GitHubHandler](inj),
		AdminHandler:     do.MustInvoke[*handler.AdminHandler](inj),
		ViewHandler:      do.MustInvoke[*handler.ViewHandler](inj),
		SetupHandler:     do.MustInvoke[*handler.SetupHandler](inj),
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		log.Sugar().Infow("starting http server", "addr", addr)
		log.Sugar().Infow("swagger url", "url", addr+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Sugar().Fatalw("listen error", "err", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}

	if cfg.RabbitMQ.URL != "" {
		if pub, err := do.Invoke[*queue.Publisher](inj); err == nil {
			_ = pub.Close()
		}
		if conn, err := do.Invoke[*amqp.Connection](inj); err == nil {
			_ = conn.Close()
		}
	}
	_ = rdb.Close()
	log.Sugar().Info("server exited")
}
