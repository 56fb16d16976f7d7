package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/travhouse/communitybot/internal/config"
	"github.com/travhouse/communitybot/internal/infra/httpclient"
	"github.com/travhouse/communitybot/internal/infra/telegram"
	pgrepo "github.com/travhouse/communitybot/internal/repo/postgres"
	redisrepo "github.com/travhouse/communitybot/internal/repo/redis"
	"github.com/travhouse/communitybot/internal/repo/serverapi"
	"github.com/travhouse/communitybot/internal/services/directory"
	"github.com/travhouse/communitybot/internal/services/notify"
	"github.com/travhouse/communitybot/internal/services/review"
	statussvc "github.com/travhouse/communitybot/internal/services/status"
	"github.com/travhouse/communitybot/internal/services/webauth"
)

type Server struct {
	cfg      config.Config
	logger   *zap.Logger
	server   *http.Server
	postgres *pgxpool.Pool
	redis    *goredis.Client
	router   http.Handler
}

// New wires the admin panel process. Decisions taken here run through
// the same review coordinator as the bot, so the single-winner rule
// holds across both surfaces.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redisrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	applicationRepo := pgrepo.NewApplicationRepo(pool)
	sessionRepo := pgrepo.NewPanelSessionRepo(pool)
	statusCache := redisrepo.NewStatusCacheRepo(redisClient)

	var source statussvc.Source
	if cfg.StatusSourceEnabled() {
		client, err := serverapi.NewClient(cfg.Status.SourceURL, httpclient.New(cfg.Status.FetchTimeout))
		if err != nil {
			log.Warn("status source unavailable, serving fallback data", zap.Error(err))
		} else {
			source = client
		}
	}

	sender, err := telegram.NewSender(cfg.Bot.Token, log)
	if err != nil {
		return nil, fmt.Errorf("create telegram sender: %w", err)
	}

	dir := directory.New(cfg.Bot.Reviewers)
	notifyService := notify.NewService(dir, applicationRepo, notify.NewTelegramMessenger(sender), log)
	reviewService := review.NewService(applicationRepo, dir, notifyService)
	statusService := statussvc.NewService(source, statusCache, cfg.Status.FetchTimeout, cfg.Status.CacheTTL, log)
	authService := webauth.NewService(cfg.Panel.Username, cfg.Panel.PasswordHash, cfg.Panel.JWTSecret, cfg.Panel.SessionTTL, sessionRepo)
	if !authService.IsConfigured() {
		log.Warn("panel auth is not configured, login is disabled")
	}

	RegisterRoutes(r, Dependencies{
		Auth:         authService,
		Review:       reviewService,
		Status:       statusService,
		Applications: applicationRepo,
		Logger:       log,
	})

	return &Server{
		cfg:    cfg,
		logger: log,
		server: &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      r,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		postgres: pool,
		redis:    redisClient,
		router:   r,
	}, nil
}

func (s *Server) Run() error {
	s.logger.Info("panel server started", zap.String("addr", s.cfg.HTTP.Addr))
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := s.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if s.postgres != nil {
		s.postgres.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (s *Server) Handler() http.Handler {
	return s.router
}
