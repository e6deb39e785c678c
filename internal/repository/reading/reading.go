package readingRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/astro-api/internal/domain"
	"github.com/admin/astro-api/internal/ports/persistence"
)

type Repository struct {
	store persistence.IDocumentStore
	Log   *slog.Logger
}

// New создаёт репозиторий чтений поверх хранилища документов.
// Ошибки хранилища оборачиваются в domain.ErrStorageUnavailable и не логируются здесь.
func New(store persistence.IDocumentStore, log *slog.Logger) *Repository {
	return &Repository{
		store: store,
		Log:   log,
	}
}

// readingDocument форма документа в коллекции reading
type readingDocument struct {
	Sign    domain.Sign `json:"sign"`
	Date    string      `json:"date"`
	Content string      `json:"content"`
}

// Create сохраняет чтение и проставляет назначенный хранилищем ID
func (r *Repository) Create(ctx context.Context, reading *domain.Reading) error {
	doc := readingDocument{
		Sign:    reading.Sign,
		Date:    reading.Date,
		Content: reading.Content,
	}

	id, err := r.store.CreateDocument(ctx, domain.ReadingCollection, doc)
	if err != nil {
		return fmt.Errorf("failed to create reading: %w: %w", domain.ErrStorageUnavailable, err)
	}

	reading.ID = id
	r.Log.Debug("reading created", "id", id, "sign", reading.Sign)
	return nil
}

// List возвращает до limit чтений, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.ReadingFilter, limit int) ([]*domain.Reading, error) {
	docFilter, err := toDocumentFilter(filter)
	if err != nil {
		return nil, err
	}

	docs, err := r.store.GetDocuments(ctx, domain.ReadingCollection, docFilter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w: %w", domain.ErrStorageUnavailable, err)
	}

	readings := make([]*domain.Reading, 0, len(docs))
	for _, doc := range docs {
		var body readingDocument
		if err := json.Unmarshal(doc.Body, &body); err != nil {
			r.Log.Debug("skipping undecodable reading document", "id", doc.ID, "error", err)
			continue
		}

		readings = append(readings, &domain.Reading{
			ID:      doc.ID,
			Sign:    body.Sign,
			Date:    body.Date,
			Content: body.Content,
		})
	}

	r.Log.Debug("readings retrieved", "count", len(readings), "sign", filter.Sign, "date", filter.Date)
	return readings, nil
}

func toDocumentFilter(filter domain.ReadingFilter) (persistence.Filter, error) {
	docFilter := persistence.Filter{}

	if filter.Sign != "" {
		sign, err := domain.ParseSign(filter.Sign)
		if err != nil {
			return nil, fmt.Errorf("sign %q: %w", filter.Sign, domain.ErrMalformedFilter)
		}
		docFilter["sign"] = sign.String()
	}

	if filter.Date != "" {
		if _, err := time.Parse(domain.DateLayout, filter.Date); err != nil {
			return nil, fmt.Errorf("date %q: %w", filter.Date, domain.ErrMalformedFilter)
		}
		docFilter["date"] = filter.Date
	}

	return docFilter, nil
}
