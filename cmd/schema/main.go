// Command schema emits JSON Schema documents for the snapshot and action
// wire contracts, so the instrumentation mod can validate what it produces
// and consumes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"roombot/agent/internal/action"
	"roombot/agent/internal/state"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the schema files")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}

	stateSchema := reflector.Reflect(new(state.Snapshot))
	stateSchema.Title = "Roombot Game State"
	stateSchema.Description = "Validates the per-frame snapshot the instrumentation mod writes to state.json"

	actionSchema := reflector.Reflect(new(action.Action))
	actionSchema.Title = "Roombot Action"
	actionSchema.Description = "Validates the decision document the agent writes to action.json"

	for name, schema := range map[string]*jsonschema.Schema{
		"state.schema.json":  stateSchema,
		"action.schema.json": actionSchema,
	} {
		if err := writeSchema(filepath.Join(outDir, name), schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
