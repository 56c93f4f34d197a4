package podcast

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDirDocuments(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("notes.txt", "plain text notes")
	write("article.md", "# markdown article")

	docs, err := NewDirDocuments(dir)
	if err != nil {
		t.Fatalf("NewDirDocuments: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"exact name", "notes.txt", "plain text notes", false},
		{"txt extension inferred", "notes", "plain text notes", false},
		{"md extension inferred", "article", "# markdown article", false},
		{"missing", "nothing-here", "", true},
		{"traversal stripped", "../../etc/passwd", "", true},
		{"blank ref", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := docs.Get(ctx, tt.ref)
			if tt.wantErr {
				if !errors.Is(err, ErrDocumentNotFound) {
					t.Fatalf("err = %v, want ErrDocumentNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if doc.Content != tt.want {
				t.Errorf("content = %q, want %q", doc.Content, tt.want)
			}
		})
	}
}

func TestNewDirDocumentsValidation(t *testing.T) {
	if _, err := NewDirDocuments("/definitely/not/here"); err == nil {
		t.Error("expected error for missing directory")
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDirDocuments(file); err == nil {
		t.Error("expected error for non-directory path")
	}
}

func TestMemoryDocuments(t *testing.T) {
	docs := NewMemoryDocuments(map[string]string{"a": "content a"})
	ctx := context.Background()

	doc, err := docs.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Name != "a" || doc.Content != "content a" {
		t.Errorf("doc = %+v", doc)
	}

	docs.Put("b", "content b")
	if _, err := docs.Get(ctx, "b"); err != nil {
		t.Errorf("Get after Put: %v", err)
	}

	if _, err := docs.Get(ctx, "missing"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("err = %v, want ErrDocumentNotFound", err)
	}
}
