package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"recipe_name": "Soup", "yield_count": 4}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"recipe_name": "Soup"`) {
			t.Errorf("unexpected JSON output: %s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "recipe_name: Soup") {
			t.Errorf("unexpected YAML output: %s", buf.String())
		}
	})

	t.Run("unknown format fails", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormat("xml"), data); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})

	// A server response decoded into a map, as the CLI extract commands do,
	// must render as readable YAML rather than a byte blob.
	t.Run("yaml of decoded response body", func(t *testing.T) {
		body := `{"recipe_name": "Soup", "components": [{"name": "Broth", "type": "sauce"}]}`
		var doc map[string]any
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "recipe_name: Soup") || !strings.Contains(out, "name: Broth") {
			t.Errorf("unexpected YAML output: %s", out)
		}
	})
}

func TestSetOutputFormat(t *testing.T) {
	defer SetOutputFormat("json")

	SetOutputFormat("yaml")
	if globalOutputFormat != OutputFormatYAML {
		t.Errorf("expected yaml, got %s", globalOutputFormat)
	}

	SetOutputFormat("garbage")
	if globalOutputFormat != OutputFormatJSON {
		t.Errorf("expected fallback to json, got %s", globalOutputFormat)
	}
}
