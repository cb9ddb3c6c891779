package hal

import (
	"slices"
	"testing"

	"github.com/waypost-dev/waypost/pkg/errors"
)

func TestCuriesRegister(t *testing.T) {
	t.Run("rejects non-curie rel", func(t *testing.T) {
		_, err := EmptyCuries().Register(Self("/books"))
		if !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidArgument)
		}
	})

	t.Run("appends new names", func(t *testing.T) {
		curies, err := CuriesOf(
			Curi("x", "http://example.org/rels/{rel}"),
			Curi("y", "http://other.org/rels/{rel}"),
		)
		if err != nil {
			t.Fatalf("CuriesOf() error = %v", err)
		}
		links := curies.Links()
		if len(links) != 2 {
			t.Fatalf("len(Links()) = %d, want 2", len(links))
		}
		if links[0].Name != "x" || links[1].Name != "y" {
			t.Errorf("names = %q, %q, want x, y", links[0].Name, links[1].Name)
		}
	})

	t.Run("replaces same name in place", func(t *testing.T) {
		curies, err := CuriesOf(
			Curi("x", "http://example.org/rels/{rel}"),
			Curi("y", "http://other.org/rels/{rel}"),
			Curi("x", "http://changed.org/rels/{rel}"),
		)
		if err != nil {
			t.Fatalf("CuriesOf() error = %v", err)
		}
		links := curies.Links()
		if len(links) != 2 {
			t.Fatalf("len(Links()) = %d, want 2", len(links))
		}
		if links[0].Name != "x" {
			t.Errorf("position of x changed: first name = %q", links[0].Name)
		}
		if links[0].Href != "http://changed.org/rels/{rel}" {
			t.Errorf("href = %q, want the re-registered one", links[0].Href)
		}
	})

	t.Run("receiver unchanged", func(t *testing.T) {
		original := EmptyCuries()
		if _, err := original.Register(Curi("x", "http://example.org/rels/{rel}")); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if !original.IsEmpty() {
			t.Error("receiver was mutated by Register")
		}
	})
}

func TestCuriesMergeWith(t *testing.T) {
	left, err := CuriesOf(
		Curi("x", "http://example.org/rels/{rel}"),
		Curi("y", "http://example.org/y/{rel}"),
	)
	if err != nil {
		t.Fatalf("CuriesOf() error = %v", err)
	}
	right, err := CuriesOf(
		Curi("x", "http://merged.org/rels/{rel}"),
		Curi("z", "http://example.org/z/{rel}"),
	)
	if err != nil {
		t.Fatalf("CuriesOf() error = %v", err)
	}

	merged := left.MergeWith(right)

	names := make([]string, 0, 3)
	for _, l := range merged.Links() {
		names = append(names, l.Name)
	}
	if !slices.Equal(names, []string{"x", "y", "z"}) {
		t.Errorf("names = %v, want [x y z]", names)
	}
	// The other registry's entry wins the name collision.
	if merged.Links()[0].Href != "http://merged.org/rels/{rel}" {
		t.Errorf("href of x = %q, want the merged-in one", merged.Links()[0].Href)
	}
}

func TestCuriesResolve(t *testing.T) {
	curies, err := CuriesOf(Curi("x", "http://example.org/rels/{rel}"))
	if err != nil {
		t.Fatalf("CuriesOf() error = %v", err)
	}

	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"expanded to curied", "http://example.org/rels/product", "x:product"},
		{"curied unchanged", "x:product", "x:product"},
		{"unmatched unchanged", "item", "item"},
		{"other url unchanged", "http://other.org/rels/product", "http://other.org/rels/product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := curies.Resolve(tt.rel); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		for _, rel := range []string{"http://example.org/rels/product", "x:product", "item"} {
			once := curies.Resolve(rel)
			twice := curies.Resolve(once)
			if once != twice {
				t.Errorf("Resolve(Resolve(%q)) = %q, want %q", rel, twice, once)
			}
		}
	})
}

func TestCuriesExpand(t *testing.T) {
	curies, err := CuriesOf(Curi("x", "http://example.org/rels/{rel}"))
	if err != nil {
		t.Fatalf("CuriesOf() error = %v", err)
	}

	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"curied to expanded", "x:product", "http://example.org/rels/product"},
		{"no colon unchanged", "item", "item"},
		{"unknown name unchanged", "y:product", "y:product"},
		{"url unchanged", "http://example.org/rels/product", "http://example.org/rels/product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := curies.Expand(tt.rel); got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}

// A curied rel expands to the full URI and resolves back to the same
// curied form.
func TestCuriesRoundTrip(t *testing.T) {
	curies, err := CuriesOf(Curi("x", "http://example.org/rels/{rel}"))
	if err != nil {
		t.Fatalf("CuriesOf() error = %v", err)
	}

	expanded := curies.Expand("x:product")
	if expanded != "http://example.org/rels/product" {
		t.Fatalf("Expand() = %q, want %q", expanded, "http://example.org/rels/product")
	}
	if back := curies.Resolve(expanded); back != "x:product" {
		t.Errorf("Resolve(Expand(%q)) = %q, want %q", "x:product", back, "x:product")
	}
}

func TestCuriesContains(t *testing.T) {
	curi := Curi("x", "http://example.org/rels/{rel}")
	curies, err := CuriesOf(curi)
	if err != nil {
		t.Fatalf("CuriesOf() error = %v", err)
	}

	if !curies.Contains(curi) {
		t.Error("Contains() = false for a registered curie")
	}
	// Equivalence ignores the name, so only the href distinguishes.
	if !curies.Contains(Curi("y", "http://example.org/rels/{rel}")) {
		t.Error("Contains() = false for an equivalent curie under another name")
	}
	if curies.Contains(Curi("x", "http://other.org/rels/{rel}")) {
		t.Error("Contains() = true for a curie with a different href")
	}
	if EmptyCuries().Contains(curi) {
		t.Error("Contains() = true on an empty registry")
	}
}
