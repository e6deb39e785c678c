package inmemory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/admin/astro-api/internal/ports/persistence"
)

const storeName = "in-memory"

// DocumentStore in-memory реализация хранилища документов.
// Используется, когда Postgres не сконфигурирован, и в тестах.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string][]persistence.Document
	now         func() time.Time
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string][]persistence.Document),
		now:         time.Now,
	}
}

func (s *DocumentStore) CreateDocument(ctx context.Context, collection string, doc any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[collection] = append(s.collections[collection], persistence.Document{
		ID:         id,
		Collection: collection,
		Body:       body,
		CreatedAt:  s.now(),
	})

	return id, nil
}

func (s *DocumentStore) GetDocuments(ctx context.Context, collection string, filter persistence.Filter, limit int) ([]persistence.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.collections[collection]
	docs := make([]persistence.Document, 0, len(stored))

	// обход с конца: новые документы первыми
	for i := len(stored) - 1; i >= 0; i-- {
		if limit > 0 && len(docs) >= limit {
			break
		}

		ok, err := matches(stored[i].Body, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to match document %s: %w", stored[i].ID, err)
		}
		if ok {
			docs = append(docs, stored[i])
		}
	}

	return docs, nil
}

func (s *DocumentStore) ListCollections(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *DocumentStore) Name() string {
	return storeName
}

// matches сравнивает строковые поля верхнего уровня, как @> в Postgres для плоского фильтра
func matches(body json.RawMessage, filter persistence.Filter) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return false, err
	}

	for key, want := range filter {
		got, ok := fields[key].(string)
		if !ok || got != want {
			return false, nil
		}
	}

	return true, nil
}
