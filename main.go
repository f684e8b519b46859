package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"yamdb/cmd"
	"yamdb/internal/data/repository"
	"yamdb/internal/wire"
	"yamdb/pkg/database"
	"yamdb/pkg/utils"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	app := &cli.Command{
		Name:  "yamdb",
		Usage: "Title reviews and ratings API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Path to an optional .env file",
				Value:   ".env",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply the database schema and exit",
				Action: migrate,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatalf("yamdb: %v", err)
	}
}

// bootstrap loads config, logger and the database pool shared by every command
func bootstrap(ctx context.Context, c *cli.Command) (*utils.Config, *zap.Logger, database.PgxIface, error) {
	config, err := utils.LoadConfig(c.String("env"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using production defaults.", err)
		logger, _ = zap.NewProduction()
	}

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("host", config.Database.Host),
		zap.String("name", config.Database.Name),
	)

	return config, logger, db, nil
}

func serve(ctx context.Context, c *cli.Command) error {
	config, logger, db, err := bootstrap(ctx, c)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer db.Close()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	repos := repository.NewRepository(db, logger)

	app, err := wire.Wiring(db, repos, config, logger)
	if err != nil {
		return err
	}

	return cmd.APIServer(ctx, app.Router, config.App.Port, config.HTTP.ShutdownTimeout, logger)
}

func migrate(ctx context.Context, c *cli.Command) error {
	_, logger, db, err := bootstrap(ctx, c)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	logger.Info("Schema applied")
	return nil
}
