// Command schema-generator emits JSON Schema documents for helpctl's
// configuration and extraction output types, so editors and CI can
// validate helpctl.config.yml files and extracted CommandSchema output.
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/mattsolo1/helpctl/pkg/config"
	"github.com/mattsolo1/helpctl/pkg/model"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	writeSchema(r, &config.Config{}, "helpctl configuration", "Configuration schema for helpctl.config.yml.", "schema/helpctl.config.schema.json")

	r2 := &jsonschema.Reflector{AllowAdditionalProperties: true, ExpandedStruct: true}
	writeSchema(r2, &model.CommandSchema{}, "helpctl command schema", "Schema for one extracted CommandSchema.", "schema/command.schema.json")
}

func writeSchema(r *jsonschema.Reflector, v any, title, description, path string) {
	schema := r.Reflect(v)
	schema.Title = title
	schema.Description = description

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("error marshaling schema for %s: %v", path, err)
	}
	if err := os.MkdirAll("schema", 0o755); err != nil {
		log.Fatalf("error creating schema directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("error writing schema file %s: %v", path, err)
	}
	log.Printf("wrote %s", path)
}
