package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/profile"
	"github.com/mm-zacharydavison/claude-code-maximizer/internal/version"
	"github.com/mm-zacharydavison/claude-code-maximizer/server"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
	"github.com/mm-zacharydavison/claude-code-maximizer/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "ccmax",
	Short: "Schedules subscription usage windows so the daily quota covers your working hours.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Only load .env for direct binary execution; a service manager
		// provides the environment itself.
		if !isRunningAsSystemdService() {
			_ = godotenv.Load()
		}
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile, err := loadProfile()
		if err != nil {
			panic(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		storeInstance, err := openStore(ctx, instanceProfile)
		if err != nil {
			cancel()
			slog.Error("failed to open store", "error", err)
			return
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			cancel()
			slog.Error("failed to create server", "error", err)
			return
		}

		c := make(chan os.Signal, 1)
		// Trigger graceful shutdown on SIGINT or SIGTERM, the latter being
		// what systemd and kubernetes send.
		signal.Notify(c, terminationSignals...)

		if err := s.Start(ctx); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				slog.Error("failed to start server", "error", err)
				cancel()
			}
		}

		printGreetings(instanceProfile)

		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		<-ctx.Done()
	},
}

// loadProfile assembles the runtime profile from flags and environment.
func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:             viper.GetString("mode"),
		Addr:             viper.GetString("addr"),
		Port:             viper.GetInt("port"),
		Data:             viper.GetString("data"),
		Driver:           viper.GetString("driver"),
		DSN:              viper.GetString("dsn"),
		TickIntervalSec:  viper.GetInt("tick-interval"),
		LaunchCommand:    viper.GetString("launch-command"),
		TelegramBotToken: viper.GetString("telegram-bot-token"),
		TelegramChatID:   viper.GetInt64("telegram-chat-id"),
		Version:          version.GetCurrentVersion(viper.GetString("mode")),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

// openStore creates the database driver and runs migrations.
func openStore(ctx context.Context, instanceProfile *profile.Profile) (*store.Store, error) {
	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, err
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		return nil, err
	}
	return storeInstance, nil
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 28099)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of the daemon, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address of the status API")
	rootCmd.PersistentFlags().Int("port", 28099, "binding port of the status API")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().Int("tick-interval", 60, "scheduler tick interval in seconds")
	rootCmd.PersistentFlags().String("launch-command", "", "shell command that opens a new usage session")
	rootCmd.PersistentFlags().String("telegram-bot-token", "", "telegram bot token for notifications")
	rootCmd.PersistentFlags().Int64("telegram-chat-id", 0, "telegram chat the notifications go to")

	for _, name := range []string{
		"mode", "addr", "port", "data", "driver", "dsn",
		"tick-interval", "launch-command", "telegram-bot-token", "telegram-chat-id",
	} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("ccmax")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	rootCmd.AddCommand(adjustCmd, analyzeCmd, scheduleCmd, versionCmd)
}

func printGreetings(instanceProfile *profile.Profile) {
	fmt.Printf("ccmax %s started successfully!\n", instanceProfile.Version)

	if instanceProfile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
	}

	fmt.Printf("Data directory: %s\n", instanceProfile.Data)
	fmt.Printf("Database driver: %s\n", instanceProfile.Driver)
	fmt.Printf("Scheduler tick: every %ds\n", instanceProfile.TickIntervalSec)
	if instanceProfile.LaunchCommand == "" {
		fmt.Fprintln(os.Stderr, "Warning: no launch command configured, auto-start will fail")
	}

	if len(instanceProfile.Addr) == 0 {
		fmt.Printf("Status API: http://localhost:%d/api/v1/status\n", instanceProfile.Port)
	} else {
		fmt.Printf("Status API: http://%s:%d/api/v1/status\n", instanceProfile.Addr, instanceProfile.Port)
	}
}

// isRunningAsSystemdService detects if the process is running under systemd.
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
