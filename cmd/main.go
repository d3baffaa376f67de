// cmd/main.go is the application entry point.
// It parses flags, sets up logging and dispatches to the subcommands.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/config"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}
	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	cfg := config.Default()
	if err := run(context.Background(), os.Args, &cfg); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cfg *config.Config) error {
	app := &cli.Command{
		Name:    "activities",
		Usage:   "Serve Mergington High School extracurricular activities",
		Version: build(),
		Flags:   append(globalFlags(cfg), serverFlags(cfg)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := setupLogger(cfg.Log.Level, cfg.Server.Env, os.Stderr); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(cfg),
			seedCmd(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'activities --help' for usage", c.Args().First())
			}
			return serve(ctx, cfg)
		},
	}
	return app.Run(ctx, args)
}

func globalFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (trace, debug, info, warn, error)",
			Sources:     cli.EnvVars("LOG_LEVEL"),
			Value:       cfg.Log.Level,
			Destination: &cfg.Log.Level,
		},
		&cli.StringFlag{
			Name:        "env",
			Usage:       "runtime environment (development, production, test)",
			Sources:     cli.EnvVars("APP_ENV"),
			Value:       cfg.Server.Env,
			Destination: &cfg.Server.Env,
		},
	}
}

func setupLogger(level, env string, out io.Writer) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output = out
	if env == "development" {
		output = zerolog.ConsoleWriter{Out: out}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger().Level(parsedLevel)
	return nil
}
