package podcast

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Document is the source material for a podcast.
type Document struct {
	Name    string
	Content string
}

// DocumentStore resolves an opaque source ref to document content.
// Document ingestion itself lives outside this core; the pipeline only
// needs lookup.
type DocumentStore interface {
	// Get returns the document for ref, or ErrDocumentNotFound.
	Get(ctx context.Context, ref string) (*Document, error)
}

// DirDocuments serves documents from plain text files in a directory.
// The ref is the file name; ".txt" and ".md" are tried when the ref has
// no extension.
type DirDocuments struct {
	dir string
}

// NewDirDocuments creates a directory-backed document store.
func NewDirDocuments(dir string) (*DirDocuments, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("document directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document directory: %s is not a directory", dir)
	}
	return &DirDocuments{dir: dir}, nil
}

// Get returns the document for ref, or ErrDocumentNotFound.
func (d *DirDocuments) Get(_ context.Context, ref string) (*Document, error) {
	// Refs are file names, never paths.
	name := filepath.Base(strings.TrimSpace(ref))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, ErrDocumentNotFound
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".txt", name+".md")
	}

	for _, c := range candidates {
		data, err := os.ReadFile(filepath.Join(d.dir, c))
		if err != nil {
			continue
		}
		return &Document{Name: name, Content: string(data)}, nil
	}

	return nil, ErrDocumentNotFound
}

// MemoryDocuments is an in-memory DocumentStore for tests.
type MemoryDocuments struct {
	mu   sync.RWMutex
	docs map[string]string
}

// NewMemoryDocuments creates a store from a ref->content map.
func NewMemoryDocuments(docs map[string]string) *MemoryDocuments {
	copied := make(map[string]string, len(docs))
	for k, v := range docs {
		copied[k] = v
	}
	return &MemoryDocuments{docs: copied}
}

// Put adds or replaces a document.
func (m *MemoryDocuments) Put(ref, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[ref] = content
}

// Get returns the document for ref, or ErrDocumentNotFound.
func (m *MemoryDocuments) Get(_ context.Context, ref string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.docs[ref]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return &Document{Name: ref, Content: content}, nil
}

// Verify implementations at compile time.
var (
	_ DocumentStore = (*DirDocuments)(nil)
	_ DocumentStore = (*MemoryDocuments)(nil)
)
