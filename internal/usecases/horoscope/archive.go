package horoscope

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/admin/astro-api/internal/domain"
)

// ArchiveReadings выгружает чтения за день одним JSON-файлом YYYY/MM/DD.json.
// В отличие от API, ошибки возвращаются: джоба повторит попытку.
func (s *Service) ArchiveReadings(ctx context.Context, day time.Time) (int, error) {
	if s.Archive == nil {
		s.Log.Warn("archive storage is not configured, skipping readings archive")
		return 0, nil
	}

	date := day.UTC().Format(domain.DateLayout)

	readings, err := s.ReadingRepo.List(ctx, domain.ReadingFilter{Date: date}, s.Cfg.ArchiveLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to list readings for %s: %w", date, err)
	}

	if len(readings) >= s.Cfg.ArchiveLimit {
		s.Log.Warn("readings archive reached the limit, the day may be truncated",
			"date", date,
			"limit", s.Cfg.ArchiveLimit,
		)
	}

	payload, err := json.Marshal(archiveFile{Date: date, Count: len(readings), Items: readings})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal archive: %w", err)
	}

	name := day.UTC().Format("2006/01/02") + ".json"
	if err := s.Archive.PutFile(ctx, name, payload, "application/json"); err != nil {
		return 0, fmt.Errorf("failed to upload archive %s: %w", name, err)
	}

	s.Log.Info("readings archived", "date", date, "count", len(readings), "file", name)
	return len(readings), nil
}

type archiveFile struct {
	Date  string            `json:"date"`
	Count int               `json:"count"`
	Items []*domain.Reading `json:"items"`
}
