package prompts

import (
	"reflect"
	"testing"
)

func TestResolver(t *testing.T) {
	r := NewResolver(nil)
	r.Register(EmbeddedPrompt{
		Key:  "stages.test.user",
		Text: "Extract {{.RecipeText}} using {{.SchemaText}}",
	})

	t.Run("resolves embedded default", func(t *testing.T) {
		resolved, err := r.Resolve("stages.test.user")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.IsOverride {
			t.Error("expected embedded default, got override")
		}
		if resolved.Text != "Extract {{.RecipeText}} using {{.SchemaText}}" {
			t.Errorf("unexpected text: %q", resolved.Text)
		}
	})

	t.Run("unknown key fails", func(t *testing.T) {
		if _, err := r.Resolve("stages.missing"); err == nil {
			t.Fatal("expected error for unknown key")
		}
	})

	t.Run("override takes precedence", func(t *testing.T) {
		if err := r.SetOverride("stages.test.user", "Custom {{.RecipeText}}"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		resolved, err := r.Resolve("stages.test.user")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resolved.IsOverride {
			t.Error("expected override flag")
		}
		if resolved.Text != "Custom {{.RecipeText}}" {
			t.Errorf("unexpected text: %q", resolved.Text)
		}
	})

	t.Run("clear restores embedded default", func(t *testing.T) {
		r.ClearOverride("stages.test.user")
		resolved, err := r.Resolve("stages.test.user")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.IsOverride {
			t.Error("expected embedded default after clear")
		}
	})

	t.Run("override for unknown key fails", func(t *testing.T) {
		if err := r.SetOverride("stages.missing", "text"); err == nil {
			t.Fatal("expected error for unknown key")
		}
	})
}

func TestResolver_Register(t *testing.T) {
	r := NewResolver(nil)
	r.Register(EmbeddedPrompt{
		Key:  "stages.test.system",
		Text: "You extract {{.Thing}} from text",
	})

	resolved, err := r.Resolve("stages.test.system")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(resolved.Variables, []string{"Thing"}) {
		t.Errorf("expected variables [Thing], got %v", resolved.Variables)
	}

	all := r.AllEmbedded()
	if len(all) != 1 {
		t.Fatalf("expected 1 embedded prompt, got %d", len(all))
	}
	if all[0].Hash == "" {
		t.Error("expected hash to be filled in on registration")
	}
}

func TestAllEmbedded_Sorted(t *testing.T) {
	r := NewResolver(nil)
	r.Register(EmbeddedPrompt{Key: "stages.b", Text: "b"})
	r.Register(EmbeddedPrompt{Key: "stages.a", Text: "a"})
	r.Register(EmbeddedPrompt{Key: "stages.c", Text: "c"})

	all := r.AllEmbedded()
	keys := make([]string, len(all))
	for i, p := range all {
		keys[i] = p.Key
	}
	want := []string{"stages.a", "stages.b", "stages.c"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("expected %v, got %v", want, keys)
	}
}

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple variables", "{{.A}} and {{.B}}", []string{"A", "B"}},
		{"deduplicated", "{{.A}} {{.A}}", []string{"A"}},
		{"spaced braces", "{{ .RecipeText }}", []string{"RecipeText"}},
		{"nested fields", "{{.Doc.Name}}", []string{"Doc.Name"}},
		{"no variables", "plain text", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVariables(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHashText(t *testing.T) {
	a := HashText("hello")
	b := HashText("hello")
	c := HashText("world")

	if a != b {
		t.Error("same text should hash identically")
	}
	if a == c {
		t.Error("different text should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
