package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/minio/minio-go/v7"
)

// Client обёртка над minio.Client, реализует storage.IObjectStorage
type Client struct {
	client *minio.Client
	bucket string
	prefix string
	log    *slog.Logger
}

func NewClient(client *minio.Client, bucket, prefix string, log *slog.Logger) *Client {
	return &Client{
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    log,
	}
}

// PutFile загружает объект; путь дополняется префиксом архива
func (c *Client) PutFile(ctx context.Context, name string, data []byte, contentType string) error {
	key := path.Join(c.prefix, name)

	info, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	c.log.Debug("object uploaded",
		"bucket", c.bucket,
		"key", key,
		"size", info.Size,
	)

	return nil
}
