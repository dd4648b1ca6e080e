package migration

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bitbucket.org/ltman/goldleaf/schema"
	"go.mongodb.org/mongo-driver/bson"
)

const filePermissions = 0600

// GenerateMigrationScripts writes an up migration creating every declared
// index and a down migration dropping them again.
func GenerateMigrationScripts(
	_ context.Context,
	logger *slog.Logger,
	declarationFilePath string,
	migrationDir, migrationName string,
	dryRun bool,
) error {
	logger.Debug("Compiling declarations", "path", declarationFilePath)
	compiled, err := compileDeclarations(declarationFilePath)
	if err != nil {
		return fmt.Errorf("failed to compile declarations: %w", err)
	}

	logger.Debug("Generating migration commands")
	upCommand, downCommand, err := generateMigrationCommands(compiled, logger)
	if err != nil {
		return fmt.Errorf("failed to generate migration commands: %w", err)
	}

	if upCommand == nil && downCommand == nil {
		logger.Info("No indexes declared, skipping migration generation")
		return nil
	}

	if dryRun {
		logger.Info("Dry-run: showing migrations without writing file")

		fmt.Println("Up migration:") //nolint:forbidigo
		if _, err := os.Stdout.Write(upCommand); err != nil {
			return fmt.Errorf("writing up migration to stdout: %w", err)
		}

		fmt.Println("\nDown migration:") //nolint:forbidigo
		if _, err := os.Stdout.Write(downCommand); err != nil {
			return fmt.Errorf("writing down migration to stdout: %w", err)
		}

		return nil
	}

	logger.Debug("Writing migration commands to files", "migrationDir", migrationDir)
	if err := writeMigrationCommands(upCommand, downCommand, migrationDir, migrationName); err != nil {
		return fmt.Errorf("failed to write migration commands: %w", err)
	}

	return nil
}

// generateMigrationCommands generates up and down migration commands
func generateMigrationCommands(compiled []*schema.Compiled, logger *slog.Logger) (upCommand, downCommand []byte, err error) {
	toCreate := make([]schema.Schema, 0, len(compiled))
	for _, c := range compiled {
		if len(c.Indexes) == 0 {
			logger.Debug("Collection declares no indexes", "collection", c.Identity.Collection)
			continue
		}
		s := c.Schema()
		for i, ix := range s.Indexes {
			s.Indexes[i] = ix.Named()
		}
		toCreate = append(toCreate, s)
		logger.Debug("Indexes to create", "collection", s.Collection, "indexCount", len(s.Indexes))
	}

	if len(toCreate) == 0 {
		return nil, nil, nil
	}

	upCommand, err = marshalDocuments(generateCreateIndexesCommands(toCreate), true)
	if err != nil {
		return nil, nil, err
	}

	downCommand, err = marshalDocuments(generateDestroyIndexCommands(toCreate), true)
	if err != nil {
		return nil, nil, err
	}

	return upCommand, downCommand, nil
}

// generateCreateIndexesCommands generates createIndexes MongoDB commands
func generateCreateIndexesCommands(schemas []schema.Schema) []bson.D {
	commands := make([]bson.D, 0, len(schemas))

	for _, s := range schemas {
		commands = append(commands, bson.D{
			{Key: "createIndexes", Value: s.Collection},
			{Key: "indexes", Value: s.Indexes},
		})
	}

	return commands
}

// generateDestroyIndexCommands generates dropIndexes MongoDB commands
func generateDestroyIndexCommands(schemas []schema.Schema) []bson.D {
	commands := make([]bson.D, 0, len(schemas))

	for _, s := range schemas {
		indexes := make([]string, 0, len(s.Indexes))
		for _, index := range s.Indexes {
			indexes = append(indexes, index.Name)
		}

		if len(indexes) > 0 {
			commands = append(commands, bson.D{
				{Key: "dropIndexes", Value: s.Collection},
				{Key: "index", Value: indexes},
			})
		}
	}

	return commands
}

// writeMigrationCommands writes the migration commands to files
func writeMigrationCommands(upCommand, downCommand []byte, migrationDir, migrationName string) error {
	if err := os.MkdirAll(migrationDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	version, err := getNextVersion(migrationDir)
	if err != nil {
		return fmt.Errorf("failed to determine next version: %w", err)
	}

	upCommandFilePath := filepath.Join(migrationDir, fmt.Sprintf("%06d_%s.up.json", version, migrationName))
	if err := os.WriteFile(upCommandFilePath, upCommand, filePermissions); err != nil {
		return fmt.Errorf("failed to write up command: %w", err)
	}

	downCommandFilePath := filepath.Join(migrationDir, fmt.Sprintf("%06d_%s.down.json", version, migrationName))
	if err := os.WriteFile(downCommandFilePath, downCommand, filePermissions); err != nil {
		return fmt.Errorf("failed to write down command: %w", err)
	}

	return nil
}

// getNextVersion determines the next version number for a migration file.
func getNextVersion(migrationDir string) (uint64, error) {
	matches, err := filepath.Glob(filepath.Join(migrationDir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("failed to match migration files: %w", err)
	}

	var maxVersion uint64
	for _, match := range matches {
		filename := filepath.Base(match)
		prefix, _, ok := strings.Cut(filename, "_")
		if !ok {
			continue
		}

		version, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}

		maxVersion = max(maxVersion, version)
	}

	return maxVersion + 1, nil
}
