package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bitbucket.org/ltman/goldleaf/db"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ApplyMigrations runs every pending index migration in migrationDir. A
// directory without up migrations is left alone and the database is not
// contacted.
func ApplyMigrations(
	ctx context.Context,
	logger *slog.Logger,
	mongoURI, databaseName string,
	migrationDir string,
) error {
	pending, err := countUpMigrations(migrationDir)
	if err != nil {
		return err
	}
	if pending == 0 {
		logger.Info("No index migrations found", "migrationDir", migrationDir)
		return nil
	}
	logger.Debug("Found index migrations", "migrationDir", migrationDir, "count", pending)

	logger.Debug("Connecting to MongoDB")
	client, err := db.ConnectToMongoDB(ctx, mongoURI)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	logger.Debug("Creating MongoDB golang-migrate driver", "database", databaseName)
	driver, err := mongodb.WithInstance(client, &mongodb.Config{DatabaseName: databaseName})
	if err != nil {
		return fmt.Errorf("failed to create golang-migrate driver: %w", err)
	}

	logger.Debug("Creating MongoDB golang-migrate migrator")
	migrator, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationDir),
		"mongodb",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer func() {
		if sourceErr, dbErr := migrator.Close(); sourceErr != nil || dbErr != nil {
			logger.Error("Failed to close migration instance", "source_error", sourceErr, "database_error", dbErr)
		}
	}()

	logger.Debug("Applying MongoDB migration files")
	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("No pending migrations")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, _, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("Applied index migrations", "migrationDir", migrationDir, "version", version)
	return nil
}

// countUpMigrations counts the files GenerateMigrationScripts writes as up
// migrations.
func countUpMigrations(migrationDir string) (int, error) {
	info, err := os.Stat(migrationDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("migration path is not a directory: %s", migrationDir)
	}

	matches, err := filepath.Glob(filepath.Join(migrationDir, "*.up.json"))
	if err != nil {
		return 0, fmt.Errorf("failed to match migration files: %w", err)
	}
	return len(matches), nil
}
