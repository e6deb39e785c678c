package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

type Config struct {
	Host            string        `envconfig:"HOST"`
	Port            string        `envconfig:"PORT" default:"6379"`
	Username        string        `envconfig:"USERNAME"`
	Password        string        `envconfig:"PASSWORD"`
	Database        int           `envconfig:"DATABASE" default:"0"`
	MaxRetries      int           `envconfig:"MAX_RETRIES" default:"3"`
	DialTimeout     time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
	PoolSize        int           `envconfig:"POOL_SIZE" default:"10"`
	MinIdleConns    int           `envconfig:"MIN_IDLE_CONNS" default:"2"`
	ConnMaxIdleTime time.Duration `envconfig:"CONN_MAX_IDLE_TIME" default:"5m"`
}

// IsConfigured кэш опционален, без хоста сервис работает без него
func (c *Config) IsConfigured() bool {
	return c != nil && c.Host != ""
}

// NewConnection создаёт подключение и проверяет его пингом.
// Нулевые значения оставляют дефолты go-redis.
func (c *Config) NewConnection(ctx context.Context) (*redis.Client, error) {
	dialTimeout := c.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:            net.JoinHostPort(c.Host, c.Port),
		Username:        c.Username,
		Password:        c.Password,
		DB:              c.Database,
		MaxRetries:      c.MaxRetries,
		DialTimeout:     dialTimeout,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		PoolSize:        c.PoolSize,
		MinIdleConns:    c.MinIdleConns,
		ConnMaxIdleTime: c.ConnMaxIdleTime,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}
