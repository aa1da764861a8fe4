package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"landmark-service/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	if err := loadSchemas(schemas.SchemasFS); err != nil {
		panic(fmt.Sprintf("contracts: %v", err))
	}
}

func loadSchemas(fsys fs.FS) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(fsys, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk schemas: %w", err)
	}

	for _, path := range paths {
		key := keyFromPath(path)
		if key == "" {
			return fmt.Errorf("schema path %s does not match events/<name>/v<version>.json", path)
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return fmt.Errorf("compile schema %s: %w", path, err)
		}
		compiledSchemas[key] = schema
	}
	return nil
}

// keyFromPath turns "events/landmark-created/v1.json" into "LandmarkCreatedEvent/1.0.0".
func keyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "events/"), ".json")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}
	return eventKey(parts[0], strings.TrimPrefix(parts[1], "v"))
}

// KeyForEvent maps an event type such as "user.password_reset_requested" to its schema key.
func KeyForEvent(eventType string, version int) string {
	name := strings.NewReplacer(".", "-", "_", "-").Replace(eventType)
	return eventKey(name, fmt.Sprint(version))
}

func eventKey(dashedName, major string) string {
	caser := cases.Title(language.English)

	var b strings.Builder
	for _, p := range strings.Split(dashedName, "-") {
		b.WriteString(caser.String(p))
	}
	b.WriteString("Event")
	return fmt.Sprintf("%s/%s.0.0", b.String(), major)
}

// ValidateEvent checks a serialized event body against its registered schema.
func ValidateEvent(eventType string, version int, body []byte) error {
	key := KeyForEvent(eventType, version)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%d' not found", eventType, version)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
