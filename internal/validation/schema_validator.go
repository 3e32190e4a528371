// Package validation checks config documents against JSON schemas before
// they are decoded into domain types.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// ErrSchemaNotFound is returned when a relative schema path cannot be found
// below the module root
var ErrSchemaNotFound = errors.New("schema not found")

var printer = message.NewPrinter(language.English)

// SchemaValidator validates JSON or YAML documents against JSON schema files
type SchemaValidator interface {
	ValidateFile(dataPath, schemaPath string) error
	ValidateBytes(data []byte, schemaPath string) error
	ValidateYAML(data []byte, schemaPath string) error
}

// validator compiles each schema once; safe for concurrent use
type validator struct {
	mu       sync.Mutex
	compiler *jsonschema.Compiler
	compiled map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a validator with an empty schema cache
func NewSchemaValidator() SchemaValidator {
	return &validator{
		compiler: jsonschema.NewCompiler(),
		compiled: make(map[string]*jsonschema.Schema),
	}
}

func (v *validator) ValidateFile(dataPath, schemaPath string) error {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dataPath, err)
	}
	if ext := strings.ToLower(filepath.Ext(dataPath)); ext == ".yaml" || ext == ".yml" {
		return v.ValidateYAML(data, schemaPath)
	}
	return v.ValidateBytes(data, schemaPath)
}

func (v *validator) ValidateBytes(data []byte, schemaPath string) error {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}
	return v.validate(doc, schemaPath)
}

// ValidateYAML converts the YAML document to its JSON form and validates that
func (v *validator) ValidateYAML(data []byte, schemaPath string) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML data: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("YAML document is not representable as JSON: %w", err)
	}
	return v.ValidateBytes(raw, schemaPath)
}

func (v *validator) validate(doc interface{}, schemaPath string) error {
	schema, err := v.schema(schemaPath)
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return describe(err)
	}
	return nil
}

func (v *validator) schema(schemaPath string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[schemaPath]; ok {
		return s, nil
	}

	resolved, err := findSchema(schemaPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("opening schema %s: %w", schemaPath, err)
	}
	defer f.Close()

	doc, err := jsonschema.UnmarshalJSON(f)
	if err != nil {
		return nil, fmt.Errorf("schema %s is not valid JSON: %w", schemaPath, err)
	}
	if err := v.compiler.AddResource(schemaPath, doc); err != nil {
		return nil, fmt.Errorf("registering schema %s: %w", schemaPath, err)
	}
	s, err := v.compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", schemaPath, err)
	}
	v.compiled[schemaPath] = s
	return s, nil
}

// describe flattens a validation error tree into one line per failing location
func describe(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validation error: %w", err)
	}
	var lines []string
	walk(ve, &lines)
	return fmt.Errorf("schema validation failed:\n%s", strings.Join(lines, "\n"))
}

func walk(ve *jsonschema.ValidationError, lines *[]string) {
	if len(ve.Causes) == 0 {
		*lines = append(*lines, leafLine(ve))
		return
	}
	for _, c := range ve.Causes {
		walk(c, lines)
	}
}

func leafLine(ve *jsonschema.ValidationError) string {
	at := "(root)"
	if len(ve.InstanceLocation) > 0 {
		at = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	if ve.ErrorKind == nil {
		return fmt.Sprintf("  - at %s: validation failed", at)
	}
	kw := strings.Join(ve.ErrorKind.KeywordPath(), ".")
	return fmt.Sprintf("  - at %s: %s (%s)", at, kw, ve.ErrorKind.LocalizedString(printer))
}

// findSchema resolves relative paths against the working directory and then
// each parent up to the directory holding go.mod.
func findSchema(schemaPath string) (string, error) {
	if filepath.IsAbs(schemaPath) {
		return schemaPath, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, schemaPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w: %s", ErrSchemaNotFound, schemaPath)
}
