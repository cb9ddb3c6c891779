package hal

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/waypost-dev/waypost/pkg/errors"
)

const pagedBooksDoc = `{
	"_links": {
		"self": {"href": "http://example.org/api/books?page=2"},
		"curies": [{"href": "http://example.org/rels/{rel}", "templated": true, "name": "x"}],
		"next": {"href": "/api/books?page=3"},
		"http://example.org/rels/book": [
			{"href": "/api/books/1"},
			{"href": "/api/books/2"}
		]
	},
	"_embedded": {
		"http://example.org/rels/book": [
			{"_links": {"self": {"href": "/api/books/1"}}, "title": "Moby-Dick"},
			{"_links": {"self": {"href": "/api/books/2"}}, "title": "Flatland"}
		]
	},
	"total": 93,
	"page": 2
}`

func TestParseDocument(t *testing.T) {
	rep, err := Parse([]byte(pagedBooksDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	t.Run("link keys curie-resolved", func(t *testing.T) {
		if !rep.Links().HasLink("x:book") {
			t.Errorf("rels = %v, want to contain x:book", rep.Links().Rels())
		}
		if got := len(rep.Links().LinksBy("http://example.org/rels/book")); got != 2 {
			t.Errorf("len(LinksBy(expanded)) = %d, want 2", got)
		}
	})

	t.Run("plain rels untouched", func(t *testing.T) {
		self, ok := rep.Links().LinkBy("self")
		if !ok {
			t.Fatal("LinkBy(self) not found")
		}
		if self.Href != "http://example.org/api/books?page=2" {
			t.Errorf("self href = %q", self.Href)
		}
		if !rep.Links().HasLink("next") {
			t.Error("HasLink(next) = false, want true")
		}
	})

	t.Run("embedded keys curie-resolved", func(t *testing.T) {
		items := rep.Embedded().ItemsBy("x:book")
		if len(items) != 2 {
			t.Fatalf("len(ItemsBy(x:book)) = %d, want 2", len(items))
		}
		title, err := AttributeAs[string](items[1], "title")
		if err != nil {
			t.Fatalf("AttributeAs() error = %v", err)
		}
		if title != "Flatland" {
			t.Errorf("title = %q, want %q", title, "Flatland")
		}
	})

	t.Run("attributes keep document order", func(t *testing.T) {
		if got := rep.AttributeNames(); !slices.Equal(got, []string{"total", "page"}) {
			t.Errorf("AttributeNames() = %v, want [total page]", got)
		}
		total, err := AttributeAs[int](rep, "total")
		if err != nil {
			t.Fatalf("AttributeAs() error = %v", err)
		}
		if total != 93 {
			t.Errorf("total = %d, want 93", total)
		}
	})

	t.Run("registry populated", func(t *testing.T) {
		if got := rep.Curies().Resolve("http://example.org/rels/author"); got != "x:author" {
			t.Errorf("Resolve() = %q, want %q", got, "x:author")
		}
	})
}

func TestParseLinkErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing href", `{"_links": {"self": {}}}`},
		{"empty href", `{"_links": {"self": {"href": ""}}}`},
		{"templated flag without template", `{"_links": {"self": {"href": "/a", "templated": true}}}`},
		{"template without templated flag", `{"_links": {"search": {"href": "/search{?q}", "templated": false}}}`},
		{"link is a string", `{"_links": {"self": "nope"}}`},
		{"empty relation type", `{"_links": {"": {"href": "/a"}}}`},
		{"links is an array", `{"_links": [1, 2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, errors.ErrCodeDecode) {
				t.Errorf("Parse() error = %v, want code %v", err, errors.ErrCodeDecode)
			}
		})
	}

	t.Run("consistent explicit flag accepted", func(t *testing.T) {
		rep, err := Parse([]byte(`{"_links": {"search": {"href": "/search{?q}", "templated": true}}}`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		link, _ := rep.Links().LinkBy("search")
		if !link.Templated() {
			t.Error("Templated() = false, want true")
		}
	})
}

func TestParseMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"_links":`},
		{"top level array", `[1, 2]`},
		{"top level string", `"hal"`},
		{"embedded is a number", `{"_embedded": 7}`},
		{"embedded item is a string", `{"_embedded": {"book": "nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, errors.ErrCodeDecode) {
				t.Errorf("Parse() error = %v, want code %v", err, errors.ErrCodeDecode)
			}
		})
	}
}

func TestParseNullMembers(t *testing.T) {
	rep, err := Parse([]byte(`{"_links": null, "_embedded": null, "total": 1}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !rep.Links().IsEmpty() {
		t.Error("Links().IsEmpty() = false, want true")
	}
	if !rep.Embedded().IsEmpty() {
		t.Error("Embedded().IsEmpty() = false, want true")
	}
	if _, ok := rep.Attribute("total"); !ok {
		t.Error("Attribute(total) not found")
	}
}

func TestMarshalDocument(t *testing.T) {
	links, err := LinkingTo().
		Self("http://example.org/books/42").
		Curi("x", "http://example.org/rels/{rel}").
		Array(NewLink("x:chapter", "/books/42/chapters/1")).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	rep, err := NewRepresentation().WithLinks(links).WithAttribute("title", "Moby-Dick")
	if err != nil {
		t.Fatalf("WithAttribute() error = %v", err)
	}

	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"_links":{"self":{"href":"http://example.org/books/42"},` +
		`"curies":[{"href":"http://example.org/rels/{rel}","templated":true,"name":"x"}],` +
		`"x:chapter":[{"href":"/books/42/chapters/1"}]},` +
		`"title":"Moby-Dick"}`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestMarshalPreservesSingleVsArray(t *testing.T) {
	t.Run("single stays object", func(t *testing.T) {
		rep, err := Parse([]byte(`{"_links": {"item": {"href": "/a"}}}`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		data, err := json.Marshal(rep)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !strings.Contains(string(data), `"item":{`) {
			t.Errorf("Marshal() = %s, want an object-valued item", data)
		}
	})

	t.Run("array of one stays array", func(t *testing.T) {
		rep, err := Parse([]byte(`{"_links": {"item": [{"href": "/a"}]}}`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		data, err := json.Marshal(rep)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !strings.Contains(string(data), `"item":[{`) {
			t.Errorf("Marshal() = %s, want an array-valued item", data)
		}
	})

	t.Run("embedded single stays object", func(t *testing.T) {
		rep, err := Parse([]byte(`{"_embedded": {"author": {"name": "Melville"}}}`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		data, err := json.Marshal(rep)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !strings.Contains(string(data), `"author":{`) {
			t.Errorf("Marshal() = %s, want an object-valued author", data)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	first, err := Parse([]byte(pagedBooksDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	second, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() after Marshal() error = %v", err)
	}

	if !slices.Equal(first.Links().Rels(), second.Links().Rels()) {
		t.Errorf("link rels changed: %v != %v", first.Links().Rels(), second.Links().Rels())
	}
	if !slices.Equal(first.AttributeNames(), second.AttributeNames()) {
		t.Errorf("attributes changed: %v != %v", first.AttributeNames(), second.AttributeNames())
	}
	if got := len(second.Embedded().ItemsBy("x:book")); got != 2 {
		t.Errorf("len(ItemsBy(x:book)) = %d, want 2", got)
	}
}

func TestDecodeConflictingSpellings(t *testing.T) {
	// The curied and the expanded spelling of one rel as two single
	// entries cannot be combined.
	doc := `{
		"_links": {
			"curies": [{"href": "http://example.org/rels/{rel}", "templated": true, "name": "x"}],
			"x:book": {"href": "/a"},
			"http://example.org/rels/book": {"href": "/b"}
		}
	}`
	if _, err := Parse([]byte(doc)); !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("Parse() error = %v, want code %v", err, errors.ErrCodeDecode)
	}

	// As arrays the spellings union into one entry.
	doc = `{
		"_links": {
			"curies": [{"href": "http://example.org/rels/{rel}", "templated": true, "name": "x"}],
			"x:book": [{"href": "/a"}],
			"http://example.org/rels/book": [{"href": "/b"}]
		}
	}`
	rep, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := len(rep.Links().LinksBy("x:book")); got != 2 {
		t.Errorf("len(LinksBy(x:book)) = %d, want 2", got)
	}
}
