package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hengadev/persistx"
	"github.com/hengadev/persistx/internal/monitoring"
	s3backup "github.com/hengadev/persistx/providers/s3"
	"github.com/hengadev/persistx/providers/vault"
)

// keyStore is where key material lives when it is kept out of the config
// file.
type keyStore interface {
	persistx.KeyProvider
	StoreKeyMaterial(ctx context.Context, km persistx.KeyMaterial) error
	Exists(ctx context.Context) (bool, error)
}

// app holds the flag values and collaborators shared by every command.
type app struct {
	configPath string
	configSet  bool
	envFile    string

	directory  string
	extension  string
	serializer string

	logLevel  string
	logFormat string
	logger    *slog.Logger

	newKeyStore func(ctx context.Context, alias string) (keyStore, error)
	newBackup   func(ctx context.Context, bucket, prefix string) (*s3backup.Backup, error)
}

func newApp() *app {
	return &app{
		logger: monitoring.DiscardLogger(),
		newKeyStore: func(ctx context.Context, alias string) (keyStore, error) {
			kv, err := vault.NewKVStore(ctx, alias)
			if err != nil {
				return nil, err
			}
			return kv, nil
		},
		newBackup: func(ctx context.Context, bucket, prefix string) (*s3backup.Backup, error) {
			return s3backup.NewFromConfig(ctx, bucket, prefix)
		},
	}
}

// Execute runs the persistx command line.
func Execute() error {
	root := newRootCommand(newApp())
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), styleError.Render("Error: ")+err.Error())
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "persistx",
		Short:         "Inspect and manage persistx save directories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", a.envFile, err)
			}
			a.configSet = cmd.Flags().Changed("config")

			level, err := monitoring.ParseLogLevel(a.logLevel)
			if err != nil {
				return err
			}
			format := monitoring.FormatText
			if strings.EqualFold(a.logFormat, "json") {
				format = monitoring.FormatJSON
			}
			a.logger = monitoring.NewLogger(monitoring.LoggerConfig{
				Level:     level,
				Format:    format,
				Output:    cmd.ErrOrStderr(),
				Component: "cli",
			})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", persistx.DefaultConfigFilename, "configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading PERSISTX_* variables")
	flags.StringVarP(&a.directory, "directory", "d", "", "save directory (overrides config)")
	flags.StringVarP(&a.extension, "extension", "e", "", "record file extension (overrides config)")
	flags.StringVarP(&a.serializer, "serializer", "s", "", "json or encrypted_json (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "text", "text or json")

	root.AddCommand(
		initCmd(a),
		keygenCmd(a),
		infoCmd(a),
		listCmd(a),
		showCmd(a),
		deleteCmd(a),
		clearCmd(a),
		backupCmd(a),
		restoreCmd(a),
		snapshotsCmd(a),
		doctorCmd(a),
		versionCmd(),
	)
	return root
}

// loadConfig reads the config file if there is one, otherwise the
// environment, then applies flag overrides and fetches key material from
// Vault when the configuration names a vault path but carries no key.
func (a *app) loadConfig(ctx context.Context) (persistx.Config, error) {
	var (
		cfg persistx.Config
		err error
	)

	_, statErr := os.Stat(a.configPath)
	switch {
	case statErr == nil:
		cfg, err = persistx.LoadConfigFromFile(a.configPath)
	case a.configSet:
		return cfg, fmt.Errorf("config file not found: %s", a.configPath)
	default:
		cfg, err = persistx.LoadConfigFromEnvironment()
	}
	if err != nil {
		return cfg, err
	}

	if err := a.applyFlags(&cfg); err != nil {
		return cfg, err
	}

	if cfg.Serializer == persistx.EncryptedText && cfg.KeyMaterial().IsZero() && cfg.VaultPath != "" {
		store, err := a.newKeyStore(ctx, cfg.VaultPath)
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", persistx.ErrKeyMaterialUnavailable, err)
		}
		if err := cfg.ResolveKeyMaterial(ctx, store); err != nil {
			return cfg, err
		}
		a.logger.Debug("key material loaded from vault", "alias", cfg.VaultPath)
	}

	return cfg, nil
}

func (a *app) applyFlags(cfg *persistx.Config) error {
	if a.directory != "" {
		cfg.Directory = a.directory
	}
	if a.extension != "" {
		cfg.FileExtension = a.extension
	}
	if a.serializer != "" {
		kind, err := persistx.ParseSerializerKind(a.serializer)
		if err != nil {
			return err
		}
		cfg.Serializer = kind
	}
	return nil
}

func (a *app) openService(ctx context.Context) (*persistx.Service, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return a.serviceFor(cfg)
}

func (a *app) serviceFor(cfg persistx.Config) (*persistx.Service, error) {
	return persistx.NewServiceFromConfig(cfg,
		persistx.WithLogger(a.logger),
		persistx.WithObservabilityHook(persistx.NewLoggingObservabilityHook(a.logger)),
	)
}
