package validation

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bossSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["boss_name", "max_hp"],
	"additionalProperties": false,
	"properties": {
		"boss_name": {"type": "string", "minLength": 1},
		"max_hp": {"type": "integer", "minimum": 1},
		"difficulty": {"enum": ["easy", "medium", "hard"]}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSchemaValidator_ValidateBytes(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "boss.schema.json", bossSchema)
	v := NewSchemaValidator()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "valid", data: `{"boss_name": "Procrastination", "max_hp": 500}`},
		{name: "valid with enum", data: `{"boss_name": "Doubt", "max_hp": 10, "difficulty": "hard"}`},
		{name: "missing required", data: `{"boss_name": "Doubt"}`, wantErr: "required"},
		{name: "wrong type", data: `{"boss_name": "Doubt", "max_hp": "lots"}`, wantErr: "/max_hp"},
		{name: "below minimum", data: `{"boss_name": "Doubt", "max_hp": 0}`, wantErr: "minimum"},
		{name: "unknown enum value", data: `{"boss_name": "Doubt", "max_hp": 5, "difficulty": "epic"}`, wantErr: "/difficulty"},
		{name: "unknown field", data: `{"boss_name": "Doubt", "max_hp": 5, "hp": 5}`, wantErr: "additionalProperties"},
		{name: "malformed json", data: `{"boss_name": `, wantErr: "parse JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.data), schema)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSchemaValidator_ValidateYAML(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "boss.schema.json", bossSchema)
	v := NewSchemaValidator()

	assert.NoError(t, v.ValidateYAML([]byte("boss_name: Sloth\nmax_hp: 300\n"), schema))

	err := v.ValidateYAML([]byte("boss_name: Sloth\nmax_hp: -3\n"), schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/max_hp")

	err = v.ValidateYAML([]byte("boss_name: [unclosed"), schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse YAML")

	err = v.ValidateYAML(nil, schema)
	require.Error(t, err, "an empty document is an empty object and lacks required keys")
	assert.Contains(t, err.Error(), "required")
}

func TestSchemaValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "boss.schema.json", bossSchema)
	v := NewSchemaValidator()

	assert.NoError(t, v.ValidateFile(writeFile(t, dir, "boss.json", `{"boss_name": "Sloth", "max_hp": 1}`), schema))
	assert.NoError(t, v.ValidateFile(writeFile(t, dir, "boss.yaml", "boss_name: Sloth\nmax_hp: 1\n"), schema))
	assert.Error(t, v.ValidateFile(writeFile(t, dir, "bad.yml", "boss_name: Sloth\n"), schema))

	err := v.ValidateFile(filepath.Join(dir, "absent.json"), schema)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSchemaValidator_SchemaErrors(t *testing.T) {
	dir := t.TempDir()
	v := NewSchemaValidator()

	err := v.ValidateBytes([]byte(`{}`), "configs/schemas/no-such.schema.json")
	assert.ErrorIs(t, err, ErrSchemaNotFound)

	broken := writeFile(t, dir, "broken.schema.json", `{"type": `)
	err = v.ValidateBytes([]byte(`{}`), broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestSchemaValidator_ResolvesFromModuleRoot(t *testing.T) {
	// tests run in the package directory; the shipped schema lives at the root
	v := NewSchemaValidator()
	err := v.ValidateBytes([]byte(`{}`), "configs/schemas/items.schema.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemaNotFound)
	assert.Contains(t, err.Error(), "required")
}

func TestSchemaValidator_CompilesOnce(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "boss.schema.json", bossSchema)
	v := NewSchemaValidator()
	valid := []byte(`{"boss_name": "Sloth", "max_hp": 1}`)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, v.ValidateBytes(valid, schema))
		}()
	}
	wg.Wait()

	// the compiled copy is used even after the file changes
	require.NoError(t, os.WriteFile(schema, []byte(`{"type": "array"}`), 0o644))
	assert.NoError(t, v.ValidateBytes(valid, schema))
	assert.Len(t, v.(*validator).compiled, 1)
}
