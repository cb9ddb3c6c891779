package hal

import (
	"slices"
	"testing"

	"github.com/waypost-dev/waypost/pkg/errors"
)

func TestWithAttribute(t *testing.T) {
	t.Run("set and read", func(t *testing.T) {
		rep, err := NewRepresentation().WithAttribute("title", "Moby-Dick")
		if err != nil {
			t.Fatalf("WithAttribute() error = %v", err)
		}
		raw, ok := rep.Attribute("title")
		if !ok {
			t.Fatal("Attribute(title) not found")
		}
		if string(raw) != `"Moby-Dick"` {
			t.Errorf("Attribute(title) = %s, want %q", raw, `"Moby-Dick"`)
		}
	})

	t.Run("replace keeps position", func(t *testing.T) {
		rep, err := NewRepresentation().WithAttribute("a", 1)
		if err != nil {
			t.Fatalf("WithAttribute() error = %v", err)
		}
		rep, err = rep.WithAttribute("b", 2)
		if err != nil {
			t.Fatalf("WithAttribute() error = %v", err)
		}
		rep, err = rep.WithAttribute("a", 3)
		if err != nil {
			t.Fatalf("WithAttribute() error = %v", err)
		}

		if got := rep.AttributeNames(); !slices.Equal(got, []string{"a", "b"}) {
			t.Errorf("AttributeNames() = %v, want [a b]", got)
		}
		raw, _ := rep.Attribute("a")
		if string(raw) != "3" {
			t.Errorf("Attribute(a) = %s, want 3", raw)
		}
	})

	t.Run("empty name fails", func(t *testing.T) {
		_, err := NewRepresentation().WithAttribute("", 1)
		if !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidArgument)
		}
	})

	t.Run("unmarshalable value fails", func(t *testing.T) {
		_, err := NewRepresentation().WithAttribute("fn", func() {})
		if !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidArgument)
		}
	})

	t.Run("receiver unchanged", func(t *testing.T) {
		original := NewRepresentation()
		if _, err := original.WithAttribute("a", 1); err != nil {
			t.Fatalf("WithAttribute() error = %v", err)
		}
		if len(original.AttributeNames()) != 0 {
			t.Error("receiver was mutated by WithAttribute")
		}
	})
}

func TestAttributeAs(t *testing.T) {
	type pageInfo struct {
		Total int `json:"total"`
		Size  int `json:"size"`
	}

	rep, err := NewRepresentation().WithAttribute("page", pageInfo{Total: 93, Size: 10})
	if err != nil {
		t.Fatalf("WithAttribute() error = %v", err)
	}

	t.Run("decodes", func(t *testing.T) {
		got, err := AttributeAs[pageInfo](rep, "page")
		if err != nil {
			t.Fatalf("AttributeAs() error = %v", err)
		}
		if got.Total != 93 || got.Size != 10 {
			t.Errorf("AttributeAs() = %+v, want {93 10}", got)
		}
	})

	t.Run("absent attribute", func(t *testing.T) {
		_, err := AttributeAs[pageInfo](rep, "missing")
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeNotFound)
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := AttributeAs[string](rep, "page")
		if !errors.Is(err, errors.ErrCodeDecode) {
			t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeDecode)
		}
	})
}

func TestAddLinks(t *testing.T) {
	self, err := LinkingTo().Self("/books/42").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	rep := NewRepresentation().WithLinks(self)

	t.Run("merges", func(t *testing.T) {
		items, err := LinkingTo().Array(Item("/a")).Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		merged, err := rep.AddLinks(items)
		if err != nil {
			t.Fatalf("AddLinks() error = %v", err)
		}
		if !merged.Links().HasLink("self") || !merged.Links().HasLink("item") {
			t.Errorf("rels = %v, want self and item", merged.Links().Rels())
		}
	})

	t.Run("single collision fails", func(t *testing.T) {
		other, err := LinkingTo().Self("/other").Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if _, err := rep.AddLinks(other); !errors.Is(err, errors.ErrCodeIllegalState) {
			t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeIllegalState)
		}
	})
}

func TestWithEmbeddedValidation(t *testing.T) {
	_, err := NewRepresentation().WithEmbedded("", []Representation{NewRepresentation()})
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidArgument)
	}
}

// Embedding a representation whose subtree uses expanded relation-type
// URIs under a parent that defines a matching curie must produce curied
// keys at every nesting depth.
func TestMergeWithEmbeddingPropagation(t *testing.T) {
	grandchildLinks, err := LinkingTo().
		Self("/books/1/chapters/1").
		Array(NewLink("http://example.org/rels/footnote", "/books/1/chapters/1/footnotes/1")).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	grandchild := NewRepresentation().WithLinks(grandchildLinks)

	childLinks, err := LinkingTo().Self("/books/1").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	child, err := NewRepresentation().
		WithLinks(childLinks).
		WithEmbedded("http://example.org/rels/chapter", []Representation{grandchild})
	if err != nil {
		t.Fatalf("WithEmbedded() error = %v", err)
	}

	parentLinks, err := LinkingTo().
		Self("/books").
		Curi("x", "http://example.org/rels/{rel}").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	parent, err := NewRepresentation().
		WithLinks(parentLinks).
		WithEmbedded("http://example.org/rels/book", []Representation{child})
	if err != nil {
		t.Fatalf("WithEmbedded() error = %v", err)
	}

	t.Run("first level curied", func(t *testing.T) {
		if got := parent.Embedded().Rels(); !slices.Equal(got, []string{"x:book"}) {
			t.Errorf("Rels() = %v, want [x:book]", got)
		}
	})

	t.Run("second level curied", func(t *testing.T) {
		book, ok := parent.Embedded().ItemBy("x:book")
		if !ok {
			t.Fatal("ItemBy(x:book) not found")
		}
		if got := book.Embedded().Rels(); !slices.Equal(got, []string{"x:chapter"}) {
			t.Errorf("Rels() = %v, want [x:chapter]", got)
		}
	})

	t.Run("third level link keys curied", func(t *testing.T) {
		book, _ := parent.Embedded().ItemBy("x:book")
		chapter, ok := book.Embedded().ItemBy("x:chapter")
		if !ok {
			t.Fatal("ItemBy(x:chapter) not found")
		}
		if !chapter.Links().HasLink("x:footnote") {
			t.Errorf("chapter rels = %v, want to contain x:footnote", chapter.Links().Rels())
		}
		// The expanded spelling keeps working through the inherited registry.
		if !chapter.Links().HasLink("http://example.org/rels/footnote") {
			t.Error("HasLink(expanded footnote) = false, want true")
		}
	})
}

func TestMergeWithEmbeddingStripsParentCuries(t *testing.T) {
	parentCuries, err := CuriesOf(Curi("x", "http://example.org/rels/{rel}"))
	if err != nil {
		t.Fatalf("CuriesOf() error = %v", err)
	}

	childLinks, err := LinkingTo().
		Self("/books/1").
		Curi("x", "http://example.org/rels/{rel}").
		Curi("own", "http://child.example.org/rels/{rel}").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	child := NewRepresentation().WithLinks(childLinks)

	merged := child.MergeWithEmbedding(parentCuries)

	curiLinks := merged.Links().LinksBy("curies")
	if len(curiLinks) != 1 {
		t.Fatalf("len(LinksBy(curies)) = %d, want 1", len(curiLinks))
	}
	if curiLinks[0].Name != "own" {
		t.Errorf("remaining curie = %q, want %q", curiLinks[0].Name, "own")
	}
	// The registry still resolves through the inherited curie.
	if got := merged.Curies().Resolve("http://example.org/rels/book"); got != "x:book" {
		t.Errorf("Resolve() = %q, want %q", got, "x:book")
	}
}

func TestRepresentationZeroValue(t *testing.T) {
	var rep Representation
	if !rep.Links().IsEmpty() {
		t.Error("zero value Links().IsEmpty() = false, want true")
	}
	if !rep.Embedded().IsEmpty() {
		t.Error("zero value Embedded().IsEmpty() = false, want true")
	}
	if len(rep.AttributeNames()) != 0 {
		t.Error("zero value has attributes")
	}
}
