package scaffold

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/slicegen/internal/templates/backend"
)

func TestValidateRenderedCleanOutput(t *testing.T) {
	known := ReplacementMap{"EntityName": "Widget"}

	clean := "class Widget(Entity):\n    code = f\"{self.code!r}\"\n"
	if err := ValidateRendered(clean, "entity.py", known); err != nil {
		t.Errorf("clean output flagged: %v", err)
	}
}

func TestValidateRenderedKnownKeyLeak(t *testing.T) {
	known := ReplacementMap{"EntityName": "Widget", "TableName": "widgets"}

	rendered := "class {{EntityName}}(Entity):\n"
	err := ValidateRendered(rendered, "entity.py", known)
	if err == nil {
		t.Fatal("expected leak error")
	}

	var leak *LeakError
	if !errors.As(err, &leak) {
		t.Fatalf("error type = %T, want *LeakError", err)
	}
	if leak.File != "entity.py" {
		t.Errorf("File = %q", leak.File)
	}
	if len(leak.Spans) != 1 || leak.Spans[0] != "{{EntityName}}" {
		t.Errorf("Spans = %v", leak.Spans)
	}
	if len(leak.Remediation()) == 0 {
		t.Error("Remediation must list hints")
	}
}

func TestValidateRenderedMalformedShapeLeak(t *testing.T) {
	known := ReplacementMap{"EntityName": "Widget"}

	// Residual detection tolerates the malformed shapes too.
	rendered := "class { {EntityName} }(Entity):\n"
	if err := ValidateRendered(rendered, "entity.py", known); err == nil {
		t.Error("malformed residual span with known key not flagged")
	}
}

func TestValidateRenderedDomainKeywordLeak(t *testing.T) {
	known := ReplacementMap{}

	tests := []struct {
		name string
		text string
		leak bool
	}{
		{"pascal with Entity", "{{OrderEntity}}", true},
		{"pascal with Input", "{{CreateInput}}", true},
		{"pascal with DTO", "{{OrderDTO}}", true},
		{"pascal without keyword", "{{SomethingElse}}", false},
		{"non-pascal with keyword", "{{order_entity}}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRendered(tt.text, "f.py", known)
			if tt.leak && err == nil {
				t.Error("expected leak")
			}
			if !tt.leak && err != nil {
				t.Errorf("unexpected leak: %v", err)
			}
		})
	}
}

func TestValidateRenderedBlockDirectivesPass(t *testing.T) {
	known := ReplacementMap{"EntityName": "Widget"}

	rendered := "{{#if AuditTrail}}\naudit()\n{{/if}}\n{{#each Item}}x{{/each}}\n"
	if err := ValidateRendered(rendered, "routes.py", known); err != nil {
		t.Errorf("block directives flagged as leaks: %v", err)
	}
}

func TestValidateRenderedDirectiveConditionWithKnownKey(t *testing.T) {
	known := ReplacementMap{"EntityName": "Widget"}

	// Directive classification wins over the known-key substring rule.
	rendered := "{{#if EntityName}}x{{/if}}"
	if err := ValidateRendered(rendered, "f.py", known); err != nil {
		t.Errorf("directive with key-named condition flagged: %v", err)
	}
}

func TestValidateRenderedDedupAndCap(t *testing.T) {
	known := ReplacementMap{"EntityName": "Widget"}

	rendered := strings.Repeat("{{EntityName}}\n", 5)
	err := ValidateRendered(rendered, "f.py", known)
	var leak *LeakError
	if !errors.As(err, &leak) {
		t.Fatalf("error type = %T", err)
	}
	if len(leak.Spans) != 1 {
		t.Errorf("repeated identical spans must be reported once, got %v", leak.Spans)
	}
}

// Every embedded template, rendered with a fully populated map, must
// produce leak-free output. This pins the template set and the engine
// together.
func TestEmbeddedTemplatesRenderWithoutLeaks(t *testing.T) {
	specs, _, err := ParseFields("label:string,price?:number:currency,active:boolean,opened_at?:date", false)
	if err != nil {
		t.Fatal(err)
	}
	tokens := DeriveTokens("salesOrder", "sales")
	m := BuildReplacementMap(tokens, DescribeFields(specs))

	src := backend.EmbeddedSource{}
	for _, set := range backend.Sets() {
		names := make([]string, 0, 12)
		for _, entry := range Manifest(DefaultLayout(), tokens) {
			names = append(names, entry.Template)
		}
		names = append(names, registrationTemplate)

		for _, name := range names {
			content, err := src.Read(set, name)
			if err != nil {
				t.Errorf("set %s missing template %s: %v", set, name, err)
				continue
			}
			rendered := Render(content, m)
			if err := ValidateRendered(rendered, set+"/"+name, m); err != nil {
				t.Errorf("leak in %s/%s: %v", set, name, err)
			}
		}
	}
}
