package migration

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bitbucket.org/ltman/goldleaf/schema"
	"gopkg.in/yaml.v3"
)

// FormatDeclarationFile rewrites a declaration file sorted by collection,
// as JSON when the file has a .json extension and as YAML otherwise. Field
// order is significant and kept.
func FormatDeclarationFile(
	_ context.Context,
	logger *slog.Logger,
	declarationFilePath string,
	dryRun bool,
) error {
	declared, err := readDeclarations(declarationFilePath)
	if err != nil {
		return fmt.Errorf("reading declarations: %w", err)
	}

	declarations, err := encodeDeclarations(declarationFilePath, prepareDeclarations(declared))
	if err != nil {
		return fmt.Errorf("encoding declarations: %w", err)
	}

	if dryRun {
		logger.Info("Dry-run: showing declarations without writing file")

		fmt.Printf("Declarations that would be written to %s:\n", declarationFilePath) //nolint:forbidigo
		if _, err := os.Stdout.Write(declarations); err != nil {
			return fmt.Errorf("writing declarations: %w", err)
		}

		return nil
	}

	logger.Info("Writing declarations to file", "path", declarationFilePath)
	if err := os.WriteFile(declarationFilePath, declarations, 0644); err != nil {
		return fmt.Errorf("writing declarations: %w", err)
	}

	return nil
}

func encodeDeclarations(path string, declarations []schema.Declaration) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		b, err := json.MarshalIndent(declarations, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return yaml.Marshal(declarations)
}

func prepareDeclarations(declarations []schema.Declaration) []schema.Declaration {
	declarations = slices.Clone(declarations)
	slices.SortStableFunc(declarations, func(a, b schema.Declaration) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return declarations
}
