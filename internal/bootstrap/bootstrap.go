// Package bootstrap assembles the app: configuration, logging, database,
// storage, services, the session gate and the feed controller.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fringe-app/fringe/internal/app/feed"
	appMigrations "github.com/fringe-app/fringe/internal/app/migrations"
	appRepos "github.com/fringe-app/fringe/internal/app/repositories"
	appServices "github.com/fringe-app/fringe/internal/app/services"
	"github.com/fringe-app/fringe/internal/app/session"
	"github.com/fringe-app/fringe/internal/config"
	"github.com/fringe-app/fringe/internal/db"
	pkgAuth "github.com/fringe-app/fringe/internal/pkg/auth"
	"github.com/fringe-app/fringe/internal/pkg/filestorage"
	"github.com/fringe-app/fringe/internal/pkg/helpers"
	"github.com/fringe-app/fringe/internal/pkg/logger"
	"github.com/fringe-app/fringe/internal/pkg/realtime"
	"github.com/fringe-app/fringe/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	SessionStore   pkgAuth.SessionStore
	AuthService    *appServices.AuthService
	ProfileService *appServices.ProfileService
	CoachService   *appServices.CoachService
	BookingService *appServices.BookingService
	VideoService   *appServices.VideoService
	ChatService    *appServices.ChatService
	Gate           *session.Gate
	Feed           *feed.Controller
	Composer       *feed.Composer
	FileStorage    *filestorage.LocalStorage
	Source         realtime.Source
	Logger         zerolog.Logger

	realtimeClient *realtime.Client
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// installs demo data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, the session gate
// and the feed.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.Auth.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.Auth.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.Auth.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.Auth.Issuer,
	})
	deps.SessionStore = pkgAuth.NewFileSessionStore(filepath.Join(cfg.Storage.BasePath, "session.json"))

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.ProfileRepository,
		deps.JWTService,
		deps.SessionStore,
		cfg.Auth.DefaultAvatarURL,
		lgr,
	)
	deps.ProfileService = appServices.NewProfileService(deps.Repos.ProfileRepository, deps.FileStorage, lgr)
	deps.CoachService = appServices.NewCoachService(deps.Repos.ProfileRepository, lgr)
	deps.BookingService = appServices.NewBookingService(deps.Repos.BookingRepository, deps.Repos.ProfileRepository, lgr)
	deps.VideoService = appServices.NewVideoService(deps.Repos.VideoRepository, deps.FileStorage, lgr)
	deps.ChatService = appServices.NewChatService(deps.Repos.ChatRepository, lgr)

	deps.Gate = session.NewGate(lgr)

	// With no remote change feed configured, mutations notify an
	// in-process broker so live updates still work end to end.
	var broker *realtime.Broker
	if cfg.Realtime.URL != "" {
		client := realtime.NewClient(cfg.Realtime.URL, helpers.ParseDuration(cfg.Realtime.HeartbeatInterval, 30*time.Second), lgr)
		go client.Run()
		deps.realtimeClient = client
		deps.Source = client
	} else {
		broker = realtime.NewBroker()
		deps.Source = broker
	}

	store := newFeedStore(deps.Repos, broker)
	deps.Feed = feed.NewController(store, deps.Gate, deps.Source, lgr)
	deps.Composer = feed.NewComposer(store, deps.FileStorage, deps.Gate, lgr)

	return deps, nil
}

// Close releases everything BuildDependencies started.
func (d *Dependencies) Close() {
	if d.Feed != nil {
		d.Feed.Stop()
	}
	if d.Gate != nil {
		d.Gate.Close()
	}
	if d.Source != nil {
		if err := d.Source.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close change feed")
		}
	}
}
