package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DocumentSchema is the canonical description of the extracted recipe shape.
// It drives both the structural validator and the instruction text handed to
// the completion model, so the validation rules and the prompt can never
// drift apart.
var DocumentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"recipe_name": map[string]any{
			"type":        "string",
			"description": "Name of the dish as written in the source text",
		},
		"chef": map[string]any{
			"type":        "string",
			"description": "Chef or author name; empty string if not stated",
		},
		"yield_count": map[string]any{
			"type":        "number",
			"minimum":     0,
			"description": "Number of portions the recipe yields; 0 if not stated",
		},
		"allergens": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Allergens named in the source text",
		},
		"components": map[string]any{
			"type":        "array",
			"items":       componentSchema,
			"description": "Preparation units; include one entry per protein, starch, vegetable and sauce found",
		},
	},
	"required":             []string{"recipe_name", "components"},
	"additionalProperties": false,
}

var componentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{
			"type":        "string",
			"description": "Name of this component",
		},
		"type": map[string]any{
			"type":        "string",
			"enum":        []string{"protein", "starch", "vegetable", "sauce"},
			"description": "Component category; exactly one of the four listed values",
		},
		"prep_time_minutes": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"description": "Preparation time in minutes; 0 if not stated",
		},
		"cook_time_minutes": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"description": "Cooking time in minutes; 0 if not stated",
		},
		"cook_temp_fahrenheit": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"description": "Cooking temperature in Fahrenheit; 0 if not specified",
		},
		"cook_method": map[string]any{
			"type":        "string",
			"description": "Cooking method such as roast, simmer or grill",
		},
		"portion_weight_grams": map[string]any{
			"type":        "number",
			"minimum":     0,
			"description": "Weight of one portion of this component in grams",
		},
		"ingredients": map[string]any{
			"type":        "array",
			"items":       ingredientSchema,
			"description": "Ingredients consumed by this component",
		},
	},
	"required":             []string{"name", "type", "ingredients"},
	"additionalProperties": false,
}

var ingredientSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{
			"type":        "string",
			"description": "Ingredient name",
		},
		"amount_per_portion_grams": map[string]any{
			"type":        "number",
			"minimum":     0,
			"description": "Amount used per portion in grams",
		},
		"sub_ingredients": map[string]any{
			"type":        "array",
			"items":       subIngredientSchema,
			"minItems":    1,
			"description": "Constituents of a mixture ingredient; omit this key entirely when the ingredient is not a mixture",
		},
	},
	"required":             []string{"name", "amount_per_portion_grams"},
	"additionalProperties": false,
}

var subIngredientSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{
			"type":        "string",
			"description": "Sub-ingredient name",
		},
		"amount_per_portion_grams": map[string]any{
			"type":        "number",
			"minimum":     0,
			"description": "Amount used per portion in grams",
		},
	},
	"required":             []string{"name", "amount_per_portion_grams"},
	"additionalProperties": false,
}

// SchemaViolation names the offending field path and the expected shape when
// a parsed value does not conform to DocumentSchema.
type SchemaViolation struct {
	Path    string
	Message string
}

func (e *SchemaViolation) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("schema violation at %s: %s", path, e.Message)
}

var (
	validatorOnce sync.Once
	validator     *jsonschema.Schema
	validatorErr  error
)

// Validator returns the compiled structural validator for DocumentSchema.
func Validator() (*jsonschema.Schema, error) {
	validatorOnce.Do(func() {
		raw, err := json.Marshal(DocumentSchema)
		if err != nil {
			validatorErr = fmt.Errorf("failed to serialize document schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("recipe_document.json", bytes.NewReader(raw)); err != nil {
			validatorErr = fmt.Errorf("failed to load document schema: %w", err)
			return
		}
		validator, validatorErr = compiler.Compile("recipe_document.json")
	})
	return validator, validatorErr
}

// Validate checks a parsed JSON value against DocumentSchema. Conforming
// values pass unchanged; violations are reported with the offending field
// path. Callers normally repair violations via Normalize rather than
// surfacing them.
func Validate(doc any) error {
	schema, err := Validator()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := leafCause(ve)
			return &SchemaViolation{
				Path:    leaf.InstanceLocation,
				Message: leaf.Message,
			}
		}
		return err
	}
	return nil
}

// leafCause descends to the most specific validation failure.
func leafCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// ResponseFormat returns the structured-output wrapper for completion
// providers that support JSON schema response formats.
func ResponseFormat() map[string]any {
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "recipe_document",
			"strict": true,
			"schema": DocumentSchema,
		},
	}
}

// InstructionText renders DocumentSchema as a field-by-field description for
// the completion model. The rendering is a pure function of the schema:
// properties are listed in sorted order so the same schema always yields the
// same text.
func InstructionText() string {
	var b strings.Builder
	b.WriteString("Produce a single JSON object with exactly these fields:\n\n")
	renderObject(&b, DocumentSchema, 0)
	return strings.TrimRight(b.String(), "\n")
}

func renderObject(b *strings.Builder, schema map[string]any, depth int) {
	props, _ := schema["properties"].(map[string]any)
	required := requiredSet(schema)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	indent := strings.Repeat("  ", depth)
	for _, name := range names {
		field, _ := props[name].(map[string]any)
		fmt.Fprintf(b, "%s- %s (%s): %s\n", indent, name, fieldKind(field, required[name]), field["description"])
		if items, ok := field["items"].(map[string]any); ok && items["type"] == "object" {
			renderObject(b, items, depth+1)
		}
	}
}

func requiredSet(schema map[string]any) map[string]bool {
	set := make(map[string]bool)
	switch req := schema["required"].(type) {
	case []string:
		for _, name := range req {
			set[name] = true
		}
	case []any:
		for _, name := range req {
			if s, ok := name.(string); ok {
				set[s] = true
			}
		}
	}
	return set
}

func fieldKind(field map[string]any, required bool) string {
	kind, _ := field["type"].(string)
	if kind == "array" {
		itemKind := "any"
		if items, ok := field["items"].(map[string]any); ok {
			if s, ok := items["type"].(string); ok {
				itemKind = s
			}
		}
		kind = "array of " + itemKind
	}
	if enum, ok := field["enum"].([]string); ok {
		kind += ", one of: " + strings.Join(enum, "|")
	}
	if required {
		return kind + ", required"
	}
	return kind
}
