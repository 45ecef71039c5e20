// Package schemas provides JSON Schema validation for configuration files and
// stored records.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Name identifies one of the embedded schemas.
type Name string

// Embedded schema names.
const (
	Keywords       Name = "keywords"
	Roles          Name = "roles"
	ResumeData     Name = "resume_data"
	ResumeAnalysis Name = "resume_analysis"
)

//go:embed *.schema.json
var schemaFS embed.FS

var (
	cache   = make(map[Name]*gojsonschema.Schema)
	cacheMu sync.RWMutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		sb.WriteString(fmt.Sprintf("validation against %s failed:\n", ve.Schema))
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Load compiles an embedded schema. Compiled schemas are cached.
func Load(name Name) (*gojsonschema.Schema, error) {
	cacheMu.RLock()
	schema, ok := cache[name]
	cacheMu.RUnlock()
	if ok {
		return schema, nil
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if schema, ok := cache[name]; ok {
		return schema, nil
	}

	path := string(name) + ".schema.json"
	data, err := schemaFS.ReadFile(path)
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "unknown schema", Cause: err}
	}

	schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "invalid schema", Cause: err}
	}

	cache[name] = schema
	return schema, nil
}

// ValidateBytes validates raw JSON against an embedded schema.
func ValidateBytes(name Name, data []byte) error {
	return validate(name, gojsonschema.NewBytesLoader(data))
}

// ValidateDocument validates a Go value, marshaled through its json tags,
// against an embedded schema.
func ValidateDocument(name Name, doc interface{}) error {
	return validate(name, gojsonschema.NewGoLoader(doc))
}

func validate(name Name, document gojsonschema.JSONLoader) error {
	schema, err := Load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(document)
	if err != nil {
		return fmt.Errorf("failed to load document for %s validation: %w", name, err)
	}
	return buildValidationError(string(name), result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return buildValidationError("", result)
}

func buildValidationError(schema string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: schema,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
