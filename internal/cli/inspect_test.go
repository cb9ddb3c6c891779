package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunInspectExamples(t *testing.T) {
	for _, name := range []string{"bookshop.json", "book.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join("..", "..", "examples", name)
			if err := runInspect(path, false); err != nil {
				t.Errorf("runInspect(%s) error: %v", name, err)
			}
			if err := runInspect(path, true); err != nil {
				t.Errorf("runInspect(%s, json) error: %v", name, err)
			}
		})
	}
}

func TestRunInspectInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: `{"_links":`},
		{name: "link without href", content: `{"_links": {"self": {"title": "no href"}}}`},
		{name: "templated flag mismatch", content: `{"_links": {"self": {"href": "/plain", "templated": true}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if err := runInspect(path, false); err == nil {
				t.Error("runInspect() should fail")
			}
		})
	}
}

func TestRunInspectMissingFile(t *testing.T) {
	if err := runInspect(filepath.Join(t.TempDir(), "nope.json"), false); err == nil {
		t.Error("runInspect() should fail for a missing file")
	}
}
