// Package client runs one app launch: it resolves the session, loads the
// feed, starts the live listener and keeps rendering until interrupted.
package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	appServices "github.com/fringe-app/fringe/internal/app/services"
	"github.com/fringe-app/fringe/internal/app/swingthought"
	"github.com/fringe-app/fringe/internal/bootstrap"
	"github.com/fringe-app/fringe/internal/config"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
)

// Client holds the state for one app launch.
type Client struct {
	config *config.Config
	deps   *bootstrap.Dependencies
	dbPool *pgxpool.Pool
	logger zerolog.Logger
}

// NewClient creates and initializes a client instance by calling bootstrap functions.
func NewClient() (*Client, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return &Client{
		config: cfg,
		deps:   deps,
		dbPool: dbPool,
		logger: lgr,
	}, nil
}

// Run resolves the session, optionally signs in with FRINGE_EMAIL and
// FRINGE_PASSWORD, renders the feed and blocks until an OS signal.
func (c *Client) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Nothing fetches before the gate has resolved.
	if err := c.deps.Gate.Resolve(ctx, c.deps.AuthService); err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}

	if _, ok := c.deps.Gate.Identity(); !ok {
		if email, password := os.Getenv("FRINGE_EMAIL"), os.Getenv("FRINGE_PASSWORD"); email != "" {
			if _, err := c.deps.AuthService.SignIn(ctx, appServices.LoginRequest{Email: email, Password: password}); err != nil {
				return fmt.Errorf("sign-in failed: %w", err)
			}
		}
	}

	fmt.Printf("Swing thought of the day: %s\n\n", swingthought.Today())

	if err := c.deps.Feed.Refresh(ctx); err != nil && !apperrors.Is(err, apperrors.ErrFeedLoadFailed) {
		return err
	}
	c.renderFeed()

	if err := c.deps.Feed.Start(); err != nil {
		return err
	}

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-osSignals
	c.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, shutting down...")

	return c.Shutdown()
}

func (c *Client) renderFeed() {
	posts, failed := c.deps.Feed.Posts()
	if failed {
		fmt.Println("Couldn't load the feed. Pull to refresh.")
		return
	}
	for _, p := range posts {
		fmt.Println(formatPost(p))
	}
}

func formatPost(p models.Post) string {
	author := "unknown"
	if p.User != nil {
		author = p.User.FullName
	}
	liked := " "
	if p.LikedByViewer {
		liked = "*"
	}
	return fmt.Sprintf("[%s] %s\n  %s\n  %s%d likes, %d comments",
		p.CreatedAt.Format("Jan 2 15:04"), author, p.Content, liked, p.Likes, p.Comments)
}

// Shutdown stops the listener and closes resources.
func (c *Client) Shutdown() error {
	c.deps.Close()

	if c.dbPool != nil {
		c.logger.Info().Msg("Closing database connection pool...")
		c.dbPool.Close()
	}

	c.logger.Info().Msg("Client shutdown process complete.")
	return nil
}
