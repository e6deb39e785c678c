package jobs

import (
	"context"
	"log/slog"
	"time"
)

const readingsArchiverName = "readings-archiver"

// ReadingsArchive выгрузка чтений за день во внешнее хранилище
type ReadingsArchive interface {
	ArchiveReadings(ctx context.Context, day time.Time) (int, error)
}

// ReadingsArchiver джоба архивации чтений за прошедшие сутки, каждый день в 00:10 UTC
type ReadingsArchiver struct {
	archive ReadingsArchive
	log     *slog.Logger
	now     func() time.Time
}

func NewReadingsArchiver(archive ReadingsArchive, log *slog.Logger) *ReadingsArchiver {
	return &ReadingsArchiver{
		archive: archive,
		log:     log,
		now:     time.Now,
	}
}

func (j *ReadingsArchiver) Name() string {
	return readingsArchiverName
}

// NextRun каждый день в 00:10 UTC
func (j *ReadingsArchiver) NextRun(now time.Time) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 10, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run архивирует вчерашний (по UTC) день
func (j *ReadingsArchiver) Run(ctx context.Context) error {
	day := j.now().UTC().AddDate(0, 0, -1)

	count, err := j.archive.ArchiveReadings(ctx, day)
	if err != nil {
		return err
	}

	j.log.Debug("readings archive job done", "day", day.Format(time.DateOnly), "count", count)
	return nil
}
