package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appsvc "legaldraft-analyzer/internal/app"
	"legaldraft-analyzer/internal/cache"
	"legaldraft-analyzer/internal/config"
	"legaldraft-analyzer/internal/decode"
	"legaldraft-analyzer/internal/evidence"
	"legaldraft-analyzer/internal/kanoon"
	"legaldraft-analyzer/internal/pkg/logger"
	"legaldraft-analyzer/internal/platform/database"
	"legaldraft-analyzer/internal/platform/gcp"
	rabbitmqClient "legaldraft-analyzer/internal/platform/rabbitmq"
	redisClient "legaldraft-analyzer/internal/platform/redis"
	"legaldraft-analyzer/internal/repository"
	"legaldraft-analyzer/internal/spotter"
	"legaldraft-analyzer/internal/storage"
	"legaldraft-analyzer/internal/worker"
)

type App struct {
	Config *config.Config
	Logger *logger.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection
	OCR    *gcp.VisionOCR

	Kanoon       *kanoon.Client
	Evidence     *evidence.Aggregator
	FeedbackRepo *repository.FeedbackRepository
	Analysis     *appsvc.AnalysisService
	Feedback     *appsvc.FeedbackService
	ExportWorker *worker.FeedbackExportWorker

	StartedAt time.Time
}

type options struct {
	startWorker bool
	logger      *logger.Logger
}

type Option func(*options)

// WithoutWorker skips the training export consumer, for short-lived tools.
func WithoutWorker() Option {
	return func(o *options) { o.startWorker = false }
}

func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.logger = log }
}

func New(ctx context.Context, opts ...Option) (*App, error) {
	o := options{startWorker: true}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log := o.logger
	if log == nil {
		log, err = logger.New(cfg.Log.Mode, cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("init logger failed: %w", err)
		}
	}

	app := &App{Config: cfg, Logger: log, StartedAt: time.Now()}
	if err := app.init(ctx, o); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context, o options) error {
	cfg := a.Config

	if cfg.UsesPlaceholderCredentials() {
		a.Logger.Warn("case-law API credentials are placeholders; searches will be rejected upstream",
			"public_key_env", "IKANOON_PUBLIC_KEY", "private_key_env", "IKANOON_PRIVATE_KEY")
	}

	db, err := database.New(ctx, cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return err
	}
	a.DB = db
	a.FeedbackRepo = repository.NewFeedbackRepository(db)
	if err := a.FeedbackRepo.AutoMigrate(); err != nil {
		return err
	}

	a.Kanoon = kanoon.NewClient(kanoon.Config{
		BaseURL:    cfg.Kanoon.BaseURL,
		PublicKey:  cfg.Kanoon.PublicKey,
		PrivateKey: cfg.Kanoon.PrivateKey,
		Timeout:    cfg.Kanoon.Timeout(),
	}, &http.Client{})

	var searcher evidence.Searcher = a.Kanoon
	if cfg.Redis.Enabled {
		a.Redis, err = redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		searcher = cache.NewCachedSearcher(a.Kanoon, cache.NewPrecedentCache(a.Redis, cfg.Redis.SearchTTL()), a.Logger)
	}

	var ocr decode.OCR
	if !cfg.OCR.Enabled {
		a.Logger.Warn("image OCR disabled; png/jpg/jpeg uploads will be rejected",
			"enable_env", "OCR_ENABLED", "credentials_env", "GOOGLE_APPLICATION_CREDENTIALS")
	} else {
		a.OCR, err = gcp.NewVisionOCR(ctx, cfg.OCR.CredentialsFile, cfg.OCR.Timeout(), a.Logger)
		if err != nil {
			return err
		}
		ocr = a.OCR
	}

	decoder := decode.NewRegistry(decode.Config{
		StagingDir:   cfg.Staging.Dir,
		MaxImageEdge: cfg.OCR.MaxImageEdge,
	}, ocr)
	a.Evidence = &evidence.Aggregator{
		Searcher:     searcher,
		Workers:      cfg.Analysis.Workers,
		QueryTimeout: cfg.Analysis.QueryTimeout(),
		Logger:       a.Logger.With("component", "evidence"),
	}
	a.Analysis = appsvc.NewAnalysisService(decoder, spotter.Placeholder{}, a.Evidence, a.Logger.With("component", "analysis"))

	feedbackOpts := []appsvc.FeedbackServiceOption{appsvc.WithFeedbackLogger(a.Logger.With("component", "feedback"))}
	if cfg.RabbitMQ.Enabled {
		a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.FeedbackQueue)
		if err != nil {
			return err
		}
		feedbackOpts = append(feedbackOpts, appsvc.WithFeedbackPublisher(
			rabbitmqClient.NewFeedbackPublisher(a.MQConn, cfg.RabbitMQ.FeedbackQueue),
		))

		if o.startWorker {
			store, err := storage.New(ctx, storage.Config{
				Type:      storage.StorageType(cfg.Storage.Type),
				LocalPath: cfg.Storage.LocalPath,
				S3Bucket:  cfg.Storage.S3Bucket,
				S3Region:  cfg.Storage.S3Region,
				AccessKey: cfg.Storage.AccessKey,
				SecretKey: cfg.Storage.SecretKey,
				Prefix:    cfg.Storage.Prefix,
			})
			if err != nil {
				return fmt.Errorf("init training storage failed: %w", err)
			}
			a.ExportWorker = worker.NewFeedbackExportWorker(a.MQConn, store, cfg.RabbitMQ.FeedbackQueue, a.Logger.With("component", "export"))
			if err := a.ExportWorker.Start(ctx); err != nil {
				return fmt.Errorf("start export worker failed: %w", err)
			}
		}
	}
	a.Feedback = appsvc.NewFeedbackService(a.FeedbackRepo, feedbackOpts...)
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.ExportWorker != nil {
		a.ExportWorker.Close()
	}
	if a.MQConn != nil {
		errs = append(errs, a.MQConn.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.OCR != nil {
		errs = append(errs, a.OCR.Close())
	}
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
	}
	if a.Logger != nil {
		a.Logger.Sync()
	}
	return errors.Join(errs...)
}
