package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Sopno181818/chor-game/internal/app"
	"github.com/Sopno181818/chor-game/internal/config"
	httpTransport "github.com/Sopno181818/chor-game/internal/transport/http"
)

const releaseVersion = "0.1.0"

func main() {
	log.SetFlags(0)
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	cfg := config.Default()

	v := viper.New()
	v.SetEnvPrefix("CHORGAME")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "chor-game",
		Short:         "Real-time four-player Babu-Police-Chor-Dakat game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotenv(""); err != nil {
				return err
			}
			applySettings(v, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Server.Host, "bind", "b", cfg.Server.Host, "address to bind to (env: CHORGAME_BIND)")
	fs.IntVarP(&cfg.Server.Port, "port", "p", cfg.Server.Port, "port to listen on (env: CHORGAME_PORT)")
	fs.StringVar(&cfg.Server.Env, "env", cfg.Server.Env, "development or production (env: CHORGAME_ENV)")
	fs.IntVar(&cfg.Game.MaxRounds, "max-rounds", cfg.Game.MaxRounds, "rounds per game (env: CHORGAME_MAX_ROUNDS)")
	fs.DurationVar(&cfg.Game.RoundCooldown, "round-cooldown", cfg.Game.RoundCooldown, "delay before the next round can start (env: CHORGAME_ROUND_COOLDOWN)")
	fs.StringVar(&cfg.Game.Policy, "policy", cfg.Game.Policy, "scoring policy, classic or extended (env: CHORGAME_POLICY)")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level (env: CHORGAME_LOG_LEVEL)")
	fs.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "log format, text or json (env: CHORGAME_LOG_FORMAT)")

	v.BindPFlags(fs)

	return cmd
}

// applySettings overlays environment values onto the config; explicit
// flags still win via viper's precedence.
func applySettings(v *viper.Viper, cfg *config.Config) {
	cfg.Server.Host = v.GetString("bind")
	cfg.Server.Port = v.GetInt("port")
	cfg.Server.Env = v.GetString("env")
	cfg.Game.MaxRounds = v.GetInt("max-rounds")
	cfg.Game.RoundCooldown = v.GetDuration("round-cooldown")
	cfg.Game.Policy = v.GetString("policy")
	cfg.Logging.Level = v.GetString("log-level")
	cfg.Logging.Format = v.GetString("log-format")
}

func run(ctx context.Context, cfg *config.Config) error {
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting chor game server",
		"env", cfg.Server.Env,
		"addr", cfg.Addr(),
		"policy", cfg.Game.Policy,
		"maxRounds", cfg.Game.MaxRounds,
	)

	hub := app.NewHub(cfg.ScoringPolicy(), cfg.Game.MaxRounds, cfg.Game.RoundCooldown, logger)
	defer hub.Close()

	server := httpTransport.NewServer(cfg, hub, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
