package bootstrap

import (
	"context"
	"time"

	"github.com/appforge/clientportal/internal/config"
	"github.com/appforge/clientportal/internal/infra/blob"
	"github.com/appforge/clientportal/internal/infra/cache"
	"github.com/appforge/clientportal/internal/infra/db"
	"github.com/appforge/clientportal/internal/infra/github"
	"github.com/appforge/clientportal/internal/infra/logger"
	"github.com/appforge/clientportal/internal/infra/queue"
	"github.com/appforge/clientportal/internal/modules/handler"
	"github.com/appforge/clientportal/internal/modules/repo"
	"github.com/appforge/clientportal/internal/modules/service"
	"github.com/appforge/clientportal/internal/notify"
	"github.com/appforge/clientportal/internal/pkg/session"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PresignExpire is the lifetime of attachment download links.
type PresignExpire time.Duration

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg), nil
	})

	// RabbitMQ Connection, only dialed when a broker URL is configured
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return amqp.Dial(cfg.RabbitMQ.URL)
	})
	do.Provide(inj, func(i *do.Injector) (*queue.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return queue.NewPublisher(
			do.MustInvoke[*amqp.Connection](i),
			cfg.RabbitMQ.Queue,
			do.MustInvoke[*zap.Logger](i),
		)
	})

	// view invalidation
	do.Provide(inj, func(i *do.Injector) (*notify.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)

		var pub notify.Publisher
		if cfg.RabbitMQ.URL != "" {
			p, err := do.Invoke[*queue.Publisher](i)
			if err != nil {
				log.Sugar().Warnw("broker unavailable, invalidations stay in redis only", "err", err)
			} else {
				pub = p
			}
		}
		return notify.New(do.MustInvoke[*redis.Client](i), pub, log), nil
	})

	// S3, only when a bucket is configured
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})
	do.Provide(inj, func(i *do.Injector) (service.AttachmentStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.S3.Bucket == "" {
			return nil, nil
		}
		s3, err := do.Invoke[*blob.S3Deps](i)
		if err != nil {
			return nil, err
		}
		return s3, nil
	})
	// get presign expire duration
	do.Provide(inj, func(i *do.Injector) (PresignExpire, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.S3.PresignExpireSec <= 0 {
			return PresignExpire(15 * time.Minute), nil
		}
		return PresignExpire(time.Duration(cfg.S3.PresignExpireSec) * time.Second), nil
	})

	// sessions and oauth
	do.Provide(inj, func(i *do.Injector) (*session.Issuer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return session.NewIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.SessionTTLSec)*time.Second), nil
	})
	do.Provide(inj, func(i *do.Injector) (*cache.StateStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.NewStateStore(do.MustInvoke[*redis.Client](i), time.Duration(cfg.GitHub.StateTTLSec)*time.Second), nil
	})
	do.Provide(inj, func(i *do.Injector) (*github.Client, error) {
		return github.NewClient(do.MustInvoke[*config.Config](i), do.MustInvoke[*zap.Logger](i))
	})
	do.Provide(inj, func(i *do.Injector) (*github.OAuthApp, error) {
		return github.NewOAuthApp(do.MustInvoke[*config.Config](i), do.MustInvoke[*zap.Logger](i)), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.QuoteRepo, error) {
		return repo.NewQuoteRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectUpdateRepo, error) {
		return repo.NewProjectUpdateRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.MilestoneRepo, error) {
		return repo.NewMilestoneRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.FeedbackRepo, error) {
		return repo.NewFeedbackRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.RepositoryTokenRepo, error) {
		return repo.NewRepositoryTokenRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[*notify.Notifier](i),
			do.MustInvoke[service.AttachmentStore](i),
			time.Duration(do.MustInvoke[PresignExpire](i)),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.QuoteService, error) {
		return service.NewQuoteService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.QuoteRepo](i),
			do.MustInvoke[*notify.Notifier](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectUpdateService, error) {
		return service.NewProjectUpdateService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.ProjectUpdateRepo](i),
			do.MustInvoke[*notify.Notifier](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.MilestoneService, error) {
		return service.NewMilestoneService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.MilestoneRepo](i),
			do.MustInvoke[*notify.Notifier](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FeedbackService, error) {
		return service.NewFeedbackService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.FeedbackRepo](i),
			do.MustInvoke[service.AttachmentStore](i),
			time.Duration(do.MustInvoke[PresignExpire](i)),
			do.MustInvoke[*notify.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.AdminService, error) {
		return service.NewAdminService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[service.QuoteService](i),
			do.MustInvoke[service.ProjectUpdateService](i),
			do.MustInvoke[service.MilestoneService](i),
			do.MustInvoke[service.AttachmentStore](i),
			time.Duration(do.MustInvoke[PresignExpire](i)),
			do.MustInvoke[*notify.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.RepositoryService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewRepositoryService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.RepositoryTokenRepo](i),
			do.MustInvoke[*github.Client](i),
			do.MustInvoke[*github.OAuthApp](i),
			do.MustInvoke[*cache.StateStore](i),
			cfg.GitHub.WebHost,
			do.MustInvoke[*notify.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.AuthService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewAuthService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[*session.Issuer](i),
			cfg.Auth.AdminEmails,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.AuthHandler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return handler.NewAuthHandler(do.MustInvoke[service.AuthService](i), handler.CookieOptions{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
			TTL:    do.MustInvoke[*session.Issuer](i).TTL(),
		}), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.QuoteHandler, error) {
		return handler.NewQuoteHandler(do.MustInvoke[service.QuoteService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.UpdateHandler, error) {
		return handler.NewUpdateHandler(do.MustInvoke[service.ProjectUpdateService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.MilestoneHandler, error) {
		return handler.NewMilestoneHandler(do.MustInvoke[service.MilestoneService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.FeedbackHandler, error) {
		return handler.NewFeedbackHandler(do.MustInvoke[service.FeedbackService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.GitHubHandler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return handler.NewGitHubHandler(
			do.MustInvoke[service.RepositoryService](i),
			cfg.App.PublicURL,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.AdminHandler, error) {
		return handler.NewAdminHandler(do.MustInvoke[service.AdminService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ViewHandler, error) {
		return handler.NewViewHandler(do.MustInvoke[*notify.Notifier](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.SetupHandler, error) {
		return handler.NewSetupHandler(do.MustInvoke[*config.Config](i)), nil
	})

	return inj
}
