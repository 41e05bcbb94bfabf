package main

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"open-webui-desktop/internal/app"
	"open-webui-desktop/internal/config"
	"open-webui-desktop/internal/logger"
)

const (
	appName    = "open-webui-desktop"
	appVersion = "1.0.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Native window around a locally managed Open WebUI server",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; environment first, explicit flags win
			_ = godotenv.Load()
			cfg.LoadEnv()
			applyFlagOverrides(cmd, cfg)

			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.Int("port", cfg.PreferredPort, "preferred server port")
	flags.String("host", cfg.Host, "interface the server binds")
	flags.String("command", cfg.ServerCommand, "server executable to launch")
	flags.Bool("browser", false, "open the system browser instead of a native window")
	flags.Bool("keep-port-owners", false, "never kill processes holding the preferred port")
	flags.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.String("log-file", cfg.LogFile, "JSON log file path (empty disables the file)")
	flags.Bool("debug", false, "enable web view developer tools")

	return cmd
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("port") {
		cfg.PreferredPort, _ = flags.GetInt("port")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("command") {
		cfg.ServerCommand, _ = flags.GetString("command")
	}
	if flags.Changed("browser") {
		cfg.BrowserMode, _ = flags.GetBool("browser")
	}
	if flags.Changed("keep-port-owners") {
		cfg.KeepPortOwners, _ = flags.GetBool("keep-port-owners")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("debug") {
		cfg.DebugWindow, _ = flags.GetBool("debug")
	}
}

func run(cfg *config.Config) error {
	session := uuid.NewString()

	log := buildLogger(cfg, session)
	defer log.Close()

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     cfg.SentryDSN,
			Release: appName + "@" + appVersion,
		})
		if err != nil {
			log.Warning("Main", "crash reporting disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	log.Info("Main", "starting launcher", map[string]interface{}{
		"version": appVersion,
		"session": session,
	})

	application, err := app.New(cfg, log)
	if err != nil {
		sentry.CaptureException(err)
		log.Error("Main", err, nil)
		return err
	}

	if err := application.Run(); err != nil {
		sentry.CaptureException(err)
		return err
	}

	log.Info("Main", "launcher terminated", nil)
	return nil
}

func buildLogger(cfg *config.Config, session string) *logger.ZerologAdapter {
	level := logger.ParseLevel(cfg.LogLevel)

	if cfg.LogFile != "" {
		log, err := logger.NewFileConsoleLogger(cfg.LogFile, level, session)
		if err == nil {
			return log
		}
		fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", cfg.LogFile, err)
	}

	return logger.NewConsoleLogger(level, session)
}
