package persistence

import (
	"context"
	"encoding/json"
	"time"
)

// Filter фильтр по равенству полей верхнего уровня документа
type Filter map[string]string

// Document сохранённый документ коллекции
type Document struct {
	ID         string
	Collection string
	Body       json.RawMessage
	CreatedAt  time.Time
}

// IDocumentStore внешнее хранилище документов
type IDocumentStore interface {
	// CreateDocument сохраняет объект в коллекцию и возвращает назначенный id
	CreateDocument(ctx context.Context, collection string, doc any) (string, error)
	// GetDocuments возвращает до limit документов, новые первыми
	GetDocuments(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error)
	ListCollections(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Name() string
}
