package kafka

import (
	"context"

	"github.com/admin/astro-api/internal/domain"
)

// IReadingEventProducer публикует события о сохранённых чтениях
type IReadingEventProducer interface {
	PublishReadingCreated(ctx context.Context, event domain.ReadingCreatedEvent) error
	Close() error
}
