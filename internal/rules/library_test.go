package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kawaragi/meguri/internal/model"
)

func TestBuiltin_Compiles(t *testing.T) {
	lib := Builtin()

	if lib.Len() == 0 {
		t.Fatal("Expected built-in library to contain rules")
	}
	if len(lib.Noise()) == 0 {
		t.Error("Expected built-in noise entries")
	}

	locations := lib.ForFamily(model.FamilyLocation)
	items := lib.ForFamily(model.FamilyItem)
	if len(locations) == 0 {
		t.Error("Expected location rules")
	}
	if len(items) == 0 {
		t.Error("Expected item rules")
	}
	if len(locations)+len(items) != lib.Len() {
		t.Errorf("Family subsets should partition the library: %d + %d != %d",
			len(locations), len(items), lib.Len())
	}
}

func TestNewLibrary_BadPatternIsFatal(t *testing.T) {
	_, err := NewLibrary([]model.Rule{
		{ID: "bad", Category: "restaurant", Family: model.FamilyLocation,
			Kind: model.RuleKindPattern, Matcher: "([unclosed"},
	}, nil)

	if err == nil {
		t.Fatal("Expected error for malformed pattern")
	}
}

func TestNewLibrary_Validation(t *testing.T) {
	cases := []struct {
		name string
		rule model.Rule
	}{
		{"missing id", model.Rule{Category: "restaurant", Family: model.FamilyLocation, Kind: model.RuleKindKeyword, Matcher: "x"}},
		{"empty matcher", model.Rule{ID: "r1", Category: "restaurant", Family: model.FamilyLocation, Kind: model.RuleKindKeyword}},
		{"bad family", model.Rule{ID: "r1", Category: "restaurant", Family: "venue", Kind: model.RuleKindKeyword, Matcher: "x"}},
		{"bad kind", model.Rule{ID: "r1", Category: "restaurant", Family: model.FamilyLocation, Kind: "fuzzy", Matcher: "x"}},
	}

	for _, tc := range cases {
		if _, err := NewLibrary([]model.Rule{tc.rule}, nil); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestNewLibrary_DuplicateID(t *testing.T) {
	rule := model.Rule{ID: "dup", Category: "restaurant", Family: model.FamilyLocation,
		Kind: model.RuleKindKeyword, Matcher: "一蘭"}

	if _, err := NewLibrary([]model.Rule{rule, rule}, nil); err == nil {
		t.Fatal("Expected error for duplicate rule id")
	}
}

func TestLoad_OverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	content := `rules:
  - id: custom-restaurant
    category: restaurant
    family: location
    kind: pattern
    matcher: "[ぁ-ん一-龯]{2,10}食堂"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(path, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if lib.Len() != 1 {
		t.Errorf("Expected 1 rule from override, got %d", lib.Len())
	}
	// Built-in noise stays when no noise override is given
	if len(lib.Noise()) == 0 {
		t.Error("Expected built-in noise entries to remain")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/rules.yaml", ""); err == nil {
		t.Fatal("Expected error for missing rules file")
	}
}
