package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	filestore "github.com/mediloop/chatline/internal/adapters/credstore/file"
	statusadapter "github.com/mediloop/chatline/internal/adapters/render/status"
	tomlrepo "github.com/mediloop/chatline/internal/adapters/repo/toml"
	"github.com/mediloop/chatline/internal/adapters/transport/gateway"
	"github.com/mediloop/chatline/internal/application"
	"github.com/mediloop/chatline/internal/broadcast"
	"github.com/mediloop/chatline/internal/ports"
)

const (
	defaultGatewayURL = "wss://gateway.mediloop.app/v1/session"

	gatewayURLKey      = "gateway.url"
	accountIDKey       = "session.account_id"
	credentialsPathKey = "credentials.path"
)

type app struct {
	lifecycle      *application.LifecycleService
	delivery       *application.DeliveryService
	events         *broadcast.Broadcaster
	records        ports.SessionRecordRepository
	statusRenderer func(statusadapter.Report, statusadapter.RenderOptions) (string, error)
	accountID      string
	now            func() time.Time
	log            zerolog.Logger
}

func wireApp() (*app, error) {
	// The repository loads ~/.chatline/config.toml into this viper instance;
	// the remaining keys are resolved from the same file. Environment
	// variables win over config values.
	cfg := viper.New()
	records, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire session record repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(gatewayURLKey, defaultGatewayURL)
	cfg.SetDefault(accountIDKey, "default")
	cfg.SetDefault(credentialsPathKey, filepath.Join(homeDir, ".chatline", "credentials"))

	log := newLogger()
	accountID := envOrDefault("CHATLINE_ACCOUNT_ID", cfg.GetString(accountIDKey))

	creds := filestore.NewStore(envOrDefault("CHATLINE_CREDENTIALS_DIR", cfg.GetString(credentialsPathKey)))
	transport := gateway.NewClient(envOrDefault("CHATLINE_GATEWAY_URL", cfg.GetString(gatewayURLKey)), log)
	events := broadcast.New()

	lifecycle := application.NewLifecycleService(
		transport,
		creds,
		records,
		events,
		ports.SystemClock{},
		log,
		application.LifecycleConfig{AccountID: accountID},
	)

	delivery := application.NewDeliveryService(
		transport,
		lifecycle,
		ports.SystemClock{},
		log,
		application.DeliveryConfig{},
	)

	return &app{
		lifecycle:      lifecycle,
		delivery:       delivery,
		events:         events,
		records:        records,
		statusRenderer: statusadapter.Render,
		accountID:      accountID,
		now:            time.Now,
		log:            log,
	}, nil
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(envOrDefault("CHATLINE_LOG_LEVEL", "warn"))
	if err != nil {
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
