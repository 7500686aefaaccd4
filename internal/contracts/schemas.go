package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"search-service/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DestinationsDatasetSchema is the schema key of the route dataset.
const DestinationsDatasetSchema = "datasets/destinations/v1.json"

type registry struct {
	events   map[string]*jsonschema.Schema
	datasets map[string]*jsonschema.Schema
}

var loadRegistry = sync.OnceValues(func() (*registry, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(schemas.SchemasFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemas.SchemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	reg := &registry{
		events:   make(map[string]*jsonschema.Schema),
		datasets: make(map[string]*jsonschema.Schema),
	}
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		if strings.HasPrefix(path, "events/") {
			if key := eventKeyFromPath(path); key != "" {
				reg.events[key] = schema
			}
			continue
		}
		reg.datasets[path] = schema
	}
	return reg, nil
})

// eventKeyFromPath maps "events/saved-search-created/v1.json" to
// "SavedSearchCreatedEvent/1.0.0".
func eventKeyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "events/"), ".json")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	version := strings.Replace(parts[1], "v", "", 1) + ".0.0"
	return name.String() + "/" + version
}

// ValidateEvent checks body against the schema registered for the event
// type and version.
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	schema, ok := reg.events[eventType+"/"+eventVersion]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}
	return validate(schema, body)
}

// ValidateDataset checks body against a dataset schema such as
// DestinationsDatasetSchema.
func ValidateDataset(schemaPath string, body []byte) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	schema, ok := reg.datasets[schemaPath]
	if !ok {
		return fmt.Errorf("dataset schema '%s' not found", schemaPath)
	}
	return validate(schema, body)
}

func validate(schema *jsonschema.Schema, body []byte) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
