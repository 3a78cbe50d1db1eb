package main // Entry point package

import (
	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"  // structured logging

	"github.com/madshoots/club-api/internal/assistant"
	"github.com/madshoots/club-api/internal/booking"
	"github.com/madshoots/club-api/internal/config"
	"github.com/madshoots/club-api/internal/contest"
	"github.com/madshoots/club-api/internal/handler"
	"github.com/madshoots/club-api/internal/middleware"
	"github.com/madshoots/club-api/internal/queue"
	"github.com/madshoots/club-api/internal/repository"
	"github.com/madshoots/club-api/internal/router"
	"github.com/madshoots/club-api/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.Env == "prod" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Redis serves three roles: store backend, rate limiter and response
	// cache.  The client is nil when the server is unreachable, and
	// everything that depends on it degrades to a no-op.
	rdb := config.NewRedisClient()

	// Pick the key/value backend for the club's state.
	var st store.Store
	switch cfg.StoreBackend {
	case "mysql":
		m, err := store.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			logrus.WithError(err).Fatal("open mysql store")
		}
		st = m
	case "redis":
		if rdb == nil {
			logrus.Fatal("STORE_BACKEND=redis requires REDIS_ADDR")
		}
		st = store.NewRedis(rdb)
	default:
		st = store.NewMemory()
	}
	logrus.WithField("backend", cfg.StoreBackend).Info("store ready")

	// Repositories own their collections; the orchestrator ties the
	// three claim-critical ones together.
	sessions := repository.NewSessionRepo(st, repository.SessionDefaults{
		Capacity: cfg.DefaultCapacity,
		PriceEUR: cfg.DefaultPriceEUR,
		Location: cfg.DefaultLocation,
	}, cfg.SessionDuration)
	codes := repository.NewAccessCodeRepo(st, cfg.BookingPassword, cfg.RewardPassword)
	users := repository.NewUserRepo(st)
	tokens := repository.NewTokenRepo(st)
	broadcast := repository.NewBroadcastRepo(st)
	proposals := repository.NewProposalRepo(st)
	entries := repository.NewContestRepo(st)
	chats := repository.NewChatRepo(st)

	claims := booking.New(sessions, codes, users, cfg.LoyaltyCycle)
	contests := contest.NewService(sessions, entries)
	agenda := assistant.NewAgendaAssistant(sessions)

	// Background consumer for the attendance log.  It reconnects on its
	// own; a broker outage never blocks the API.
	go func() {
		if err := queue.StartClaimConsumer(); err != nil {
			logrus.WithError(err).Warn("claim consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true

	// Rate limiting and response caching are Redis-backed and turn into
	// pass-throughs when the client is nil or the feature is disabled.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterMember(e,
		handler.NewSessionHandler(sessions, users, claims),
		handler.NewProfileHandler(users, sessions, broadcast),
		handler.NewContestHandler(contests),
		handler.NewProposalHandler(proposals),
		handler.NewChatHandler(agenda, chats),
		cfg.JWTSecret,
	)
	router.RegisterAdmin(e, handler.NewAdminHandler(sessions, codes, users, broadcast), cfg.JWTSecret)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
