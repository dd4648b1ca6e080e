package migration

import (
	"context"
	"fmt"
	"log/slog"

	"bitbucket.org/ltman/goldleaf/db"
)

// EnsureIndexes creates the declared indexes directly, collection by
// collection in file order, stopping at the first failure.
func EnsureIndexes(
	ctx context.Context,
	logger *slog.Logger,
	mongoURI, databaseName string,
	declarationFilePath string,
) error {
	logger.Debug("Compiling declarations", "path", declarationFilePath)
	compiled, err := compileDeclarations(declarationFilePath)
	if err != nil {
		return fmt.Errorf("failed to compile declarations: %w", err)
	}

	logger.Debug("Connecting to MongoDB")
	client, err := db.ConnectToMongoDB(ctx, mongoURI)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	store := db.NewStore(client.Database(databaseName))
	for _, c := range compiled {
		logger.Debug("Creating indexes", "collection", c.Identity.Collection, "indexCount", len(c.Indexes))
		if err := db.CreateIndices(ctx, store, c); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	logger.Info("Indexes are in place", "collections", len(compiled))
	return nil
}
