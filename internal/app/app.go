package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travhouse/communitybot/internal/config"
	"github.com/travhouse/communitybot/internal/infra/httpclient"
	"github.com/travhouse/communitybot/internal/infra/telegram"
	pgrepo "github.com/travhouse/communitybot/internal/repo/postgres"
	redisrepo "github.com/travhouse/communitybot/internal/repo/redis"
	"github.com/travhouse/communitybot/internal/repo/serverapi"
	"github.com/travhouse/communitybot/internal/services/directory"
	"github.com/travhouse/communitybot/internal/services/intake"
	"github.com/travhouse/communitybot/internal/services/notify"
	"github.com/travhouse/communitybot/internal/services/review"
	statussvc "github.com/travhouse/communitybot/internal/services/status"
)

type App struct {
	cfg    config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *goredis.Client
	tg     *telegram.Client

	applicationRepo *pgrepo.ApplicationRepo

	directory     *directory.Directory
	intakeService *intake.Service
	notifyService *notify.Service
	reviewService *review.Service
	statusService *statussvc.Service
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Warn("postgres unavailable, continuing without database", zap.Error(err))
		pool = nil
	}

	redisClient := redisrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	applicationRepo := pgrepo.NewApplicationRepo(pool)
	statusCache := redisrepo.NewStatusCacheRepo(redisClient)

	var source statussvc.Source
	if cfg.StatusSourceEnabled() {
		client, err := serverapi.NewClient(cfg.Status.SourceURL, httpclient.New(cfg.Status.FetchTimeout))
		if err != nil {
			logger.Warn("status source unavailable, serving fallback data", zap.Error(err))
		} else {
			source = client
		}
	} else {
		logger.Warn("status source is not configured, serving fallback data")
	}

	dir := directory.New(cfg.Bot.Reviewers)
	if dir.Size() == 0 {
		logger.Warn("reviewer directory is empty, applications cannot be reviewed")
	}

	app := &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redis:           redisClient,
		applicationRepo: applicationRepo,
		directory:       dir,
		intakeService:   intake.NewService(applicationRepo),
		statusService:   statussvc.NewService(source, statusCache, cfg.Status.FetchTimeout, cfg.Status.CacheTTL, logger),
	}

	app.tg, err = telegram.NewClient(cfg.Bot.Token, cfg.Bot.PollTimeoutSeconds, logger, app.routeUpdate)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	app.notifyService = notify.NewService(dir, applicationRepo, notify.NewTelegramMessenger(app.tg), logger)
	app.reviewService = review.NewService(applicationRepo, dir, app.notifyService)

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	defer a.close()
	return a.tg.Start(ctx)
}

func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("close redis", zap.Error(err))
		}
	}
}
