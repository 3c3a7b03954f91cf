package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/profiles/docs"
	"github.com/fkhayef/profiles/internal/assets"
	"github.com/fkhayef/profiles/internal/config"
	"github.com/fkhayef/profiles/internal/database"
	"github.com/fkhayef/profiles/internal/icon"
	"github.com/fkhayef/profiles/internal/locale"
	"github.com/fkhayef/profiles/internal/logger"
	"github.com/fkhayef/profiles/internal/profile"
	"github.com/fkhayef/profiles/internal/user"
	mw "github.com/fkhayef/profiles/pkg/middleware"
	"github.com/fkhayef/profiles/pkg/response"
)

// @title        Profiles API
// @version      1.0
// @description  User profile pages, icon resolution and the user directory.
// @BasePath     /
func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init("profiles", cfg.Debug)
	if envErr != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Connected to database successfully")

	// User directory, optionally fronted by redis
	var userStore user.Store = user.NewRepository(db)
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, user lookups will hit the database")
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to redis")
		}

		cache := user.NewRedisCache(rdb, cfg.Redis.UserTTL)
		userStore = user.NewCachedStore(userStore, cache, logger.Component("user_cache"))
	}
	userService := user.NewService(userStore)
	userHandler := user.NewHandler(userService)

	// Static views and icon resolution
	simplecache := assets.NewSimpleCache(cfg.SiteURL, cfg.SimplecacheLastcache, logger.Component("simplecache"))
	if err := icon.RegisterDefaultViews(simplecache); err != nil {
		log.Fatal().Err(err).Msg("Failed to register default icon views")
	}

	iconStore := icon.NewLocalStore(cfg.DataRoot)
	icons := icon.NewChain(cfg.SiteURL, iconStore, simplecache, logger.Component("icon"))
	directHandler := icon.NewDirectHandler(iconStore, logger.Component("icon_direct"))

	translations, err := locale.New(cfg.DefaultLanguage, logger.Component("locale"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load translations")
	}

	// Profile feature
	urls := profile.NewURLs(cfg.SiteURL)
	profileRouter := profile.NewRouter(userService, urls)
	profileHandler := profile.NewHandler(
		profileRouter,
		profile.NewJSONRenderer(icons, urls),
		translations,
		cfg.NotFoundRedirect,
		logger.Component("profile"),
	)
	menuHandler := profile.NewMenuHandler(icons, urls, translations)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(logger.Component("http")))
	r.Use(middleware.Recoverer)
	r.Use(mw.Caller(userStore, logger.Component("auth")))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", readiness(db, rdb))

	r.Mount("/profile", profileHandler.Routes())
	r.Method(http.MethodGet, "/"+icon.DirectPath, directHandler)
	r.Mount("/cache", simplecache.Routes())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())
		r.Mount("/menu", menuHandler.Routes())
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Str("site_url", cfg.SiteURL).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func readiness(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Warn().Err(err).Msg("Database not ready")
			response.ServiceUnavailable(w, "Database unavailable")
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Msg("Redis not ready")
				response.ServiceUnavailable(w, "Cache unavailable")
				return
			}
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
