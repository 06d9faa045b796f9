package config

import (
	"flag"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddress    = ":8080"
	defaultDatabaseDSN      = ""
	defaultIdentityAddr     = "http://localhost:8181"
	defaultLedgerAddr       = "http://localhost:8182"
	defaultNotificationAddr = "http://localhost:8183"
	defaultLogLevel         = "debug"
)

type Config struct {
	ServerAddr       string
	DatabaseDSN      string
	IdentityAddr     string
	LedgerAddr       string
	NotificationAddr string
	LogLevel         string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		// .env is optional, absence is not an error
		_ = godotenv.Load()

		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "orderflow server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "orderflow database DSN")
		flag.StringVar(&cfg.IdentityAddr, "i", defaultIdentityAddr, "identity service address")
		flag.StringVar(&cfg.LedgerAddr, "b", defaultLedgerAddr, "ledger service address")
		flag.StringVar(&cfg.NotificationAddr, "n", defaultNotificationAddr, "notification service address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseURIEnv := os.Getenv("DATABASE_URI"); databaseURIEnv != "" {
			cfg.DatabaseDSN = databaseURIEnv
		}
		if identityAddrEnv := os.Getenv("IDENTITY_ADDRESS"); identityAddrEnv != "" {
			cfg.IdentityAddr = identityAddrEnv
		}
		if ledgerAddrEnv := os.Getenv("LEDGER_ADDRESS"); ledgerAddrEnv != "" {
			cfg.LedgerAddr = ledgerAddrEnv
		}
		if notificationAddrEnv := os.Getenv("NOTIFICATION_ADDRESS"); notificationAddrEnv != "" {
			cfg.NotificationAddr = notificationAddrEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}

		singleton = &cfg
	})

	return singleton, nil
}
