package migration

import (
	"errors"
	"fmt"
	"io"
	"os"

	"bitbucket.org/ltman/goldleaf/schema"
	"gopkg.in/yaml.v3"
)

// readDeclarations reads a YAML or JSON list of record declarations.
// Unknown keys are rejected.
func readDeclarations(path string) ([]schema.Declaration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var declarations []schema.Declaration
	if err := dec.Decode(&declarations); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if declarations == nil {
		declarations = make([]schema.Declaration, 0)
	}

	return declarations, nil
}

// compileDeclarations reads and compiles a declaration file, keeping file order.
func compileDeclarations(path string) ([]*schema.Compiled, error) {
	declarations, err := readDeclarations(path)
	if err != nil {
		return nil, fmt.Errorf("reading declarations: %w", err)
	}

	compiled := make([]*schema.Compiled, 0, len(declarations))
	for _, d := range declarations {
		c, err := schema.Compile(d)
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", d.Name, err)
		}
		compiled = append(compiled, c)
	}

	return compiled, nil
}
