package storage

import "context"

// IObjectStorage S3-совместимое хранилище (MinIO) для архивов
type IObjectStorage interface {
	PutFile(ctx context.Context, path string, data []byte, contentType string) error
}
