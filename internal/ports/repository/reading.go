package repository

import (
	"context"

	"github.com/admin/astro-api/internal/domain"
)

type IReadingRepo interface {
	// Create сохраняет чтение и проставляет reading.ID
	Create(ctx context.Context, reading *domain.Reading) error
	List(ctx context.Context, filter domain.ReadingFilter, limit int) ([]*domain.Reading, error)
}
