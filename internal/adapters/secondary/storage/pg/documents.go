package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/admin/astro-api/internal/ports/persistence"
)

// DocumentStore хранилище документов поверх таблицы documents (JSONB).
// Фильтр по полям работает через оператор @>.
type DocumentStore struct {
	db     persistence.Persistence
	dbName string
}

func NewDocumentStore(db persistence.Persistence, dbName string) *DocumentStore {
	return &DocumentStore{
		db:     db,
		dbName: dbName,
	}
}

type documentRow struct {
	ID         string    `db:"id"`
	Collection string    `db:"collection"`
	Body       []byte    `db:"body"`
	CreatedAt  time.Time `db:"created_at"`
}

func (s *DocumentStore) CreateDocument(ctx context.Context, collection string, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	var id string
	query := `INSERT INTO documents (id, collection, body) VALUES ($1, $2, $3::jsonb) RETURNING id::text`
	if err := s.db.QueryRow(ctx, query, uuid.New(), collection, string(body)).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to insert document into %s: %w", collection, err)
	}

	return id, nil
}

func (s *DocumentStore) GetDocuments(ctx context.Context, collection string, filter persistence.Filter, limit int) ([]persistence.Document, error) {
	if filter == nil {
		filter = persistence.Filter{}
	}

	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filter: %w", err)
	}

	var rows []documentRow
	query := `
		SELECT id::text AS id, collection, body, created_at
		FROM documents
		WHERE collection = $1 AND body @> $2::jsonb
		ORDER BY created_at DESC
		LIMIT $3
	`
	if err := s.db.Select(ctx, &rows, query, collection, string(filterJSON), limit); err != nil {
		return nil, fmt.Errorf("failed to select documents from %s: %w", collection, err)
	}

	docs := make([]persistence.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, persistence.Document{
			ID:         row.ID,
			Collection: row.Collection,
			Body:       json.RawMessage(row.Body),
			CreatedAt:  row.CreatedAt,
		})
	}

	return docs, nil
}

func (s *DocumentStore) ListCollections(ctx context.Context) ([]string, error) {
	var collections []string
	query := `SELECT DISTINCT collection FROM documents ORDER BY collection`
	if err := s.db.Select(ctx, &collections, query); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *DocumentStore) Name() string {
	return s.dbName
}
