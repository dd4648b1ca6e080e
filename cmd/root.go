package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bitbucket.org/ltman/goldleaf/migration"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "GOLDLEAF"

type Config struct {
	ConfigFile          string `mapstructure:"config"`
	MongoURI            string `mapstructure:"mongo-uri"`
	DatabaseName        string `mapstructure:"database-name"`
	DeclarationFilePath string `mapstructure:"declaration-file-path"`
	OutputDir           string `mapstructure:"output-dir"`
	OutputFile          string `mapstructure:"output-file"`
	MigrationName       string `mapstructure:"migration-name"`
	LogLevel            string `mapstructure:"log-level"`
	DryRun              bool   `mapstructure:"dry-run"`
}

var cfg Config

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(level string) (*slog.Logger, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})), nil
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "goldleaf",
		Short:         "MongoDB index declaration compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd)
		},
	}

	registerPersistentFlags(cmd)

	cmd.AddCommand(
		newRenderCmd(),
		newGenerateCmd(),
		newApplyCmd(),
		newEnsureCmd(),
		newFmtCmd(),
	)

	return cmd
}

func registerPersistentFlags(cmd *cobra.Command) {
	const defaultLogLevel = "info"

	cmd.PersistentFlags().String("config", "", "Optional config file (yaml, json or toml)")
	cmd.PersistentFlags().String("mongo-uri", "", "MongoDB connection URI")
	cmd.PersistentFlags().String("database-name", "", "Name of the database")
	cmd.PersistentFlags().String("declaration-file-path", "", "Path to the index declaration file")
	cmd.PersistentFlags().String("output-dir", "", "Directory for migration files")
	cmd.PersistentFlags().String("output-file", "", "File to write rendered schemas to, stdout when empty")
	cmd.PersistentFlags().String("migration-name", "", "Name of the migration")
	cmd.PersistentFlags().String("log-level", defaultLogLevel, "Logging level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("dry-run", false, "Show changes without writing files")
}

// loadConfig merges flags, GOLDLEAF_* environment variables and the optional
// config file into cfg. Flags win over the environment, which wins over the file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "render",
		Short:   "Compile the declaration file and output the index definitions",
		PreRunE: requireFields(declarationFileField),
		RunE:    runRender,
	}
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Short:   "Generate migration scripts creating the declared indexes",
		PreRunE: preRunGenerate,
		RunE:    runGenerate,
	}
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "apply",
		Short:   "Apply pending migration scripts",
		PreRunE: requireFields(mongoURIField, databaseNameField, outputDirField),
		RunE:    runApply,
	}
}

func newEnsureCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ensure",
		Short:   "Create the declared indexes directly",
		PreRunE: requireFields(mongoURIField, databaseNameField, declarationFileField),
		RunE:    runEnsure,
	}
}

func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "fmt",
		Short:   "Format the declaration file, keeping its JSON or YAML format",
		PreRunE: requireFields(declarationFileField),
		RunE:    runFmt,
	}
}

type requiredField struct {
	name  string
	value func() string
}

var (
	mongoURIField        = requiredField{"mongo-uri", func() string { return cfg.MongoURI }}
	databaseNameField    = requiredField{"database-name", func() string { return cfg.DatabaseName }}
	declarationFileField = requiredField{"declaration-file-path", func() string { return cfg.DeclarationFilePath }}
	outputDirField       = requiredField{"output-dir", func() string { return cfg.OutputDir }}
	migrationNameField   = requiredField{"migration-name", func() string { return cfg.MigrationName }}
)

func requireFields(fields ...requiredField) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		return checkRequired(fields...)
	}
}

func checkRequired(fields ...requiredField) error {
	var missingFields []string
	for _, f := range fields {
		if f.value() == "" {
			missingFields = append(missingFields, f.name)
		}
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required fields:\n  - %v", strings.Join(missingFields, "\n  - "))
	}

	if _, err := os.Stat(cfg.DeclarationFilePath); cfg.DeclarationFilePath != "" && errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("declaration file does not exist: %s", cfg.DeclarationFilePath)
	}

	return nil
}

func preRunGenerate(_ *cobra.Command, _ []string) error {
	fields := []requiredField{declarationFileField}
	if !cfg.DryRun {
		fields = append(fields, outputDirField, migrationNameField)
	}
	return checkRequired(fields...)
}

// run sets up signal handling and logging for a command body.
func run(fn func(ctx context.Context, logger *slog.Logger) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return fn(ctx, logger)
}

func runRender(_ *cobra.Command, _ []string) error {
	return run(func(ctx context.Context, logger *slog.Logger) error {
		logger.Debug("Rendering compiled schemas")
		if err := migration.RenderSchemas(ctx, logger, cfg.DeclarationFilePath, cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to render schemas: %w", err)
		}
		return nil
	})
}

func runGenerate(_ *cobra.Command, _ []string) error {
	return run(func(ctx context.Context, logger *slog.Logger) error {
		logger.Debug("Starting migration script generator")
		err := migration.GenerateMigrationScripts(
			ctx,
			logger,
			cfg.DeclarationFilePath,
			cfg.OutputDir, cfg.MigrationName,
			cfg.DryRun,
		)
		if err != nil {
			return fmt.Errorf("failed to generate migration scripts: %w", err)
		}
		return nil
	})
}

func runApply(_ *cobra.Command, _ []string) error {
	return run(func(ctx context.Context, logger *slog.Logger) error {
		logger.Debug("Starting migration applier")
		if err := migration.ApplyMigrations(ctx, logger, cfg.MongoURI, cfg.DatabaseName, cfg.OutputDir); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		return nil
	})
}

func runEnsure(_ *cobra.Command, _ []string) error {
	return run(func(ctx context.Context, logger *slog.Logger) error {
		logger.Debug("Ensuring declared indexes")
		if err := migration.EnsureIndexes(ctx, logger, cfg.MongoURI, cfg.DatabaseName, cfg.DeclarationFilePath); err != nil {
			return fmt.Errorf("failed to ensure indexes: %w", err)
		}
		return nil
	})
}

func runFmt(_ *cobra.Command, _ []string) error {
	return run(func(ctx context.Context, logger *slog.Logger) error {
		if err := migration.FormatDeclarationFile(ctx, logger, cfg.DeclarationFilePath, cfg.DryRun); err != nil {
			return fmt.Errorf("failed to format declaration file: %w", err)
		}
		return nil
	})
}
