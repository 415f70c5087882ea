package knowledge

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemStore implements Store on top of chromem-go, an embedded
// vector database with gob-file persistence. No external service is
// required; embeddings are produced by the configured EmbeddingFunc.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// ChromemConfig configures a ChromemStore.
type ChromemConfig struct {
	// Path is the directory for persistent storage. Empty means in-memory.
	Path string
	// Collection is the collection name. Defaults to "cogent_documents".
	Collection string
	// Embedding overrides the embedding function. Nil uses the chromem
	// default (OpenAI text-embedding-3-small via OPENAI_API_KEY).
	Embedding chromem.EmbeddingFunc
}

// NewChromemStore opens (or creates) a chromem-backed store.
func NewChromemStore(cfg ChromemConfig) (*ChromemStore, error) {
	var (
		db  *chromem.DB
		err error
	)
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		if err := os.MkdirAll(cfg.Path, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		db, err = chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	}

	name := cfg.Collection
	if name == "" {
		name = "cogent_documents"
	}

	collection, err := db.GetOrCreateCollection(name, nil, cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", name, err)
	}

	return &ChromemStore{db: db, collection: collection}, nil
}

// Ingest adds one document to the store.
func (s *ChromemStore) Ingest(ctx context.Context, id, content string, metadata map[string]string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("document %s has no content", id)
	}

	err := s.collection.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("add document %s: %w", id, err)
	}
	return nil
}

// IngestFile reads a text file and adds it as a single document.
// The file name becomes the document ID and document_type metadata is
// derived from the extension.
func (s *ChromemStore) IngestFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	metadata := map[string]string{
		"filename":      name,
		"document_type": documentType(path),
	}
	return s.Ingest(ctx, name, string(data), metadata)
}

// Search implements Store. The result limit is capped at the collection
// size because chromem rejects nResults larger than the document count.
func (s *ChromemStore) Search(ctx context.Context, query string, limit int, threshold float64) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if limit <= 0 {
		limit = 10
	}

	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	raw, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	results := make([]SearchResult, 0, len(raw))
	for _, r := range raw {
		score := float64(r.Similarity)
		if score < threshold {
			continue
		}
		results = append(results, SearchResult{
			DocumentID: r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Relevance:  score,
		})
	}

	log.Printf("[knowledge] search %q returned %d/%d results above %.2f", query, len(results), len(raw), threshold)
	return results, nil
}

// Count returns the number of ingested documents.
func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

func documentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return "markdown"
	case ".csv":
		return "spreadsheet"
	case ".txt":
		return "text"
	default:
		return "other"
	}
}
