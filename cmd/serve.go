package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"voucher-extractor/core/config"
	"voucher-extractor/core/loader"
	"voucher-extractor/core/logger"
	"voucher-extractor/core/middleware/auth"
	"voucher-extractor/core/middleware/rayid"
	"voucher-extractor/core/storage"
	"voucher-extractor/feature/vouchers"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the voucher report over HTTP",
	Long:  `Loads the orders and barcodes once and serves the report through a read-only HTTP API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on")
	serveCmd.Flags().String("source", "", "where the CSV files are read from: file or s3")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetString("port")
	}
	if cmd.Flags().Changed("source") {
		cfg.Extract.Source, _ = cmd.Flags().GetString("source")
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	// 2. Initialize Logger
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	if err := cfg.Extract.Validate(); err != nil {
		return err
	}

	// 3. Initialize Storage (s3 source only)
	var client storage.Client
	if cfg.Extract.Source == vouchers.SourceS3 {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}
	repo := newRepository(cfg, client, logg)

	srv := newServer(cfg, repo, logg)
	if err := srv.features.LoadAll(srv.app); err != nil {
		return err
	}

	// 4. Preload so the first request does not pay for the join
	if cfg.Server.Preload {
		go func() {
			if err := repo.Load(context.Background()); err != nil {
				logg.Error("Preload failed, retrying on first request", zap.Error(err))
			}
		}()
	}

	// 5. Start Server
	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("address", cfg.Server.Address()), zap.Bool("auth", cfg.Server.AuthEnabled()))
		errCh <- srv.app.Listen(cfg.Server.Address())
	}()

	// 6. Graceful Shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sig:
	}
	logg.Info("Shutting down server...")
	return srv.app.Shutdown()
}

type server struct {
	app      *fiber.App
	features *loader.Manager
}

// newServer wires the middleware chain and registers the features.
func newServer(cfg *config.Config, repo vouchers.Querier, logg *zap.Logger) *server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We log our own startup message
	})

	// RayID must be first to trace everything
	app.Use(rayid.New())

	// Request logging with zap + RayID
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	mgr := loader.NewManager(logg)
	mgr.Register(vouchers.NewFeature(repo, cfg.Extract.TopCustomers, logg))

	app.Get("/health", func(c *fiber.Ctx) error {
		features := fiber.Map{}
		for _, f := range mgr.Features() {
			features[f.Name()] = f.IsEnabled()
		}
		return c.JSON(fiber.Map{"status": "ok", "features": features})
	})

	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

	return &server{app: app, features: mgr}
}
