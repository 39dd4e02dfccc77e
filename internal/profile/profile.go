// Package profile holds the runtime configuration of a ccmax instance.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start the ccmax daemon.
type Profile struct {
	// Mode can be "prod" or "dev".
	Mode string
	// Addr is the binding address for the local status API.
	Addr string
	// Port is the binding port for the local status API.
	Port int
	// Data is the data directory.
	Data string
	// Driver is the database driver, "sqlite" or "postgres".
	Driver string
	// DSN is the database source name.
	DSN string
	// TickIntervalSec is how often the scheduler tick runs.
	TickIntervalSec int
	// LaunchCommand starts a new usage session when the scheduler fires,
	// e.g. `claude -p "good morning"`.
	LaunchCommand string
	// TelegramBotToken enables the Telegram notification channel when set.
	TelegramBotToken string
	// TelegramChatID is the chat the Telegram notifier delivers to.
	TelegramChatID int64
	// Version is the current binary version.
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables. Values already set
// by flags win over the environment.
func (p *Profile) FromEnv() {
	if p.LaunchCommand == "" {
		p.LaunchCommand = getEnvOrDefault("CCMAX_LAUNCH_COMMAND", "")
	}
	if p.TelegramBotToken == "" {
		p.TelegramBotToken = getEnvOrDefault("CCMAX_TELEGRAM_BOT_TOKEN", "")
	}
	if p.TelegramChatID == 0 {
		p.TelegramChatID = int64(getEnvOrDefaultInt("CCMAX_TELEGRAM_CHAT_ID", 0))
	}
	if p.TickIntervalSec == 0 {
		p.TickIntervalSec = getEnvOrDefaultInt("CCMAX_TICK_INTERVAL_SECONDS", 60)
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies.
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dataDir, 0o750); err != nil {
			return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
		}
	} else if err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "ccmax")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".ccmax")
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	if p.TickIntervalSec <= 0 {
		p.TickIntervalSec = 60
	}

	if p.Data == "" {
		p.Data = defaultDataDir()
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		p.DSN = filepath.Join(dataDir, fmt.Sprintf("ccmax_%s.db", p.Mode))
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn required for postgres driver")
	}

	return nil
}
