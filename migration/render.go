package migration

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"bitbucket.org/ltman/goldleaf/schema"
)

// RenderSchemas compiles a declaration file and prints, or writes to
// outputPath, the index definitions of every collection.
func RenderSchemas(
	_ context.Context,
	logger *slog.Logger,
	declarationFilePath string,
	outputPath string,
) error {
	logger.Debug("Compiling declarations", "path", declarationFilePath)
	compiled, err := compileDeclarations(declarationFilePath)
	if err != nil {
		return fmt.Errorf("failed to compile declarations: %w", err)
	}

	schemas := make([]schema.Schema, 0, len(compiled))
	for _, c := range compiled {
		schemas = append(schemas, c.Schema())
	}

	b, err := marshalDocuments(schemas, false)
	if err != nil {
		return fmt.Errorf("failed to render schemas: %w", err)
	}

	if outputPath == "" {
		if _, err := os.Stdout.Write(b); err != nil {
			return fmt.Errorf("writing schemas to stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, b, filePermissions); err != nil {
		return fmt.Errorf("failed to write schemas: %w", err)
	}
	logger.Info("Successfully wrote compiled schemas to file", "path", outputPath)

	return nil
}
