package horoscope_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/admin/astro-api/internal/adapters/secondary/storage/inmemory"
	redisCache "github.com/admin/astro-api/internal/adapters/secondary/storage/redis"
	"github.com/admin/astro-api/internal/domain"
	"github.com/admin/astro-api/internal/pkg/logger"
	"github.com/admin/astro-api/internal/pkg/metrics"
	readingRepo "github.com/admin/astro-api/internal/repository/reading"
	"github.com/admin/astro-api/internal/usecases/horoscope"
)

var fixedNow = time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)

type MockReadingRepo struct {
	mock.Mock
}

func (m *MockReadingRepo) Create(ctx context.Context, reading *domain.Reading) error {
	return m.Called(ctx, reading).Error(0)
}

func (m *MockReadingRepo) List(ctx context.Context, filter domain.ReadingFilter, limit int) ([]*domain.Reading, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reading), args.Error(1)
}

type fakeProducer struct {
	events []domain.ReadingCreatedEvent
	err    error
}

func (p *fakeProducer) PublishReadingCreated(_ context.Context, event domain.ReadingCreatedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

type fakeArchive struct {
	files map[string][]byte
	err   error
}

func (a *fakeArchive) PutFile(_ context.Context, path string, data []byte, _ string) error {
	if a.err != nil {
		return a.err
	}
	if a.files == nil {
		a.files = map[string][]byte{}
	}
	a.files[path] = data
	return nil
}

func newService(t *testing.T) *horoscope.Service {
	t.Helper()
	repo := readingRepo.New(inmemory.NewDocumentStore(), logger.NewNop())
	svc := horoscope.New(repo, nil, nil, nil, metrics.New(), horoscope.Config{}, logger.NewNop())
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func TestService_CreateHoroscope(t *testing.T) {
	svc := newService(t)

	h, err := svc.CreateHoroscope(context.Background(), domain.HoroscopeRequest{Sign: "Leo"})
	require.NoError(t, err)

	assert.Equal(t, domain.SignLeo, h.Sign)
	assert.Equal(t, "daily", h.Scope)
	assert.Equal(t, "2024-03-15", h.Date)
	assert.Contains(t, h.Content, "Leo Daily Horoscope for 2024-03-15")
	require.NotNil(t, h.ID)
	assert.NotEmpty(t, *h.ID)

	items := svc.ListReadings(context.Background(), "leo", 0)
	require.Len(t, items, 1)
	assert.Equal(t, *h.ID, items[0].ID)
	assert.Equal(t, h.Content, items[0].Content)
}

func TestService_CreateHoroscope_UnknownSign(t *testing.T) {
	svc := newService(t)

	h, err := svc.CreateHoroscope(context.Background(), domain.HoroscopeRequest{Sign: "dragon"})
	assert.Nil(t, h)
	assert.ErrorIs(t, err, domain.ErrUnknownSign)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, svc.ListReadings(context.Background(), "", 0))
}

func TestService_CreateHoroscope_StoreDown(t *testing.T) {
	repo := &MockReadingRepo{}
	repo.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))

	producer := &fakeProducer{}
	svc := horoscope.New(repo, nil, producer, nil, metrics.New(), horoscope.Config{}, logger.NewNop())

	h, err := svc.CreateHoroscope(context.Background(), domain.HoroscopeRequest{Sign: "aries", Scope: "weekly"})
	require.NoError(t, err)
	assert.Nil(t, h.ID)
	assert.Equal(t, "weekly", h.Scope)
	assert.Empty(t, producer.events)
	repo.AssertExpectations(t)
}

func TestService_SaveReading_PublishesEvent(t *testing.T) {
	svc := newService(t)
	producer := &fakeProducer{}
	svc.Events = producer

	h, err := svc.CreateHoroscope(context.Background(), domain.HoroscopeRequest{Sign: "virgo", Scope: "monthly"})
	require.NoError(t, err)
	require.NotNil(t, h.ID)

	require.Len(t, producer.events, 1)
	ev := producer.events[0]
	assert.Equal(t, *h.ID, ev.ID)
	assert.Equal(t, domain.SignVirgo, ev.Sign)
	assert.Equal(t, "monthly", ev.Scope)
	assert.Equal(t, "2024-03-15", ev.Date)
}

func TestService_SaveReading_PublishFailureKeepsID(t *testing.T) {
	svc := newService(t)
	svc.Events = &fakeProducer{err: errors.New("broker down")}

	h, err := svc.CreateHoroscope(context.Background(), domain.HoroscopeRequest{Sign: "libra"})
	require.NoError(t, err)
	assert.NotNil(t, h.ID)
}

func TestService_ListReadings_Degrades(t *testing.T) {
	tests := []struct {
		name    string
		sign    string
		listErr error
	}{
		{name: "store unavailable", sign: "", listErr: domain.ErrStorageUnavailable},
		{name: "malformed filter", sign: "dragon", listErr: domain.ErrMalformedFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockReadingRepo{}
			repo.On("List", mock.Anything, domain.ReadingFilter{Sign: tt.sign}, 50).
				Return(nil, tt.listErr)

			svc := horoscope.New(repo, nil, nil, nil, nil, horoscope.Config{}, logger.NewNop())

			items := svc.ListReadings(context.Background(), tt.sign, 0)
			assert.NotNil(t, items)
			assert.Empty(t, items)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ListReadings_Limit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: 50},
		{name: "negative", limit: -3, want: 50},
		{name: "explicit", limit: 7, want: 7},
		{name: "capped", limit: 1000, want: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockReadingRepo{}
			repo.On("List", mock.Anything, domain.ReadingFilter{}, tt.want).
				Return([]*domain.Reading{}, nil)

			svc := horoscope.New(repo, nil, nil, nil, nil, horoscope.Config{}, logger.NewNop())
			svc.ListReadings(context.Background(), "", tt.limit)

			repo.AssertExpectations(t)
		})
	}
}

func TestNew_ConfigDefaults(t *testing.T) {
	svc := horoscope.New(&MockReadingRepo{}, nil, nil, nil, nil, horoscope.Config{}, logger.NewNop())

	assert.Equal(t, 50, svc.Cfg.ListLimit)
	assert.Equal(t, 200, svc.Cfg.MaxListLimit)
	assert.Equal(t, time.Minute, svc.Cfg.CacheTTL)
	assert.Equal(t, 10000, svc.Cfg.ArchiveLimit)

	svc = horoscope.New(&MockReadingRepo{}, nil, nil, nil, nil, horoscope.Config{ListLimit: 300}, logger.NewNop())
	assert.Equal(t, 300, svc.Cfg.MaxListLimit)
}

func TestService_ListReadings_Cache(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	svc := newService(t)
	svc.Cache = redisCache.NewClient(rc)
	ctx := context.Background()

	_, err := svc.CreateHoroscope(ctx, domain.HoroscopeRequest{Sign: "leo"})
	require.NoError(t, err)

	first := svc.ListReadings(ctx, "leo", 0)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists("astro:readings:leo"))

	cached, err := mr.Get("astro:readings:leo")
	require.NoError(t, err)
	var fromCache []*domain.Reading
	require.NoError(t, json.Unmarshal([]byte(cached), &fromCache))
	assert.Equal(t, first, fromCache)

	// нестандартный лимит не кэшируется
	svc.ListReadings(ctx, "", 5)
	assert.False(t, mr.Exists("astro:readings:all"))

	svc.ListReadings(ctx, "", 0)
	assert.True(t, mr.Exists("astro:readings:all"))

	_, err = svc.CreateHoroscope(ctx, domain.HoroscopeRequest{Sign: "leo"})
	require.NoError(t, err)
	assert.False(t, mr.Exists("astro:readings:leo"))
	assert.False(t, mr.Exists("astro:readings:all"))

	assert.Len(t, svc.ListReadings(ctx, "leo", 0), 2)
}

// сохранение во время чтения из хранилища не должно оставить в кэше устаревший список
func TestService_ListReadings_ConcurrentSaveSkipsCacheWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	repo := &MockReadingRepo{}
	svc := horoscope.New(repo, redisCache.NewClient(rc), nil, nil, nil, horoscope.Config{}, logger.NewNop())
	svc.Now = func() time.Time { return fixedNow }
	ctx := context.Background()

	stale := []*domain.Reading{{ID: "old", Sign: domain.SignLeo, Date: "2024-03-15", Content: "x"}}
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("List", mock.Anything, domain.ReadingFilter{Sign: "leo"}, 50).
		Run(func(mock.Arguments) {
			svc.SaveReading(ctx, &domain.Reading{ID: "new", Sign: domain.SignLeo, Date: "2024-03-15", Content: "y"}, "daily")
		}).
		Return(stale, nil).Once()

	assert.Equal(t, stale, svc.ListReadings(ctx, "leo", 0))
	assert.False(t, mr.Exists("astro:readings:leo"))

	repo.On("List", mock.Anything, domain.ReadingFilter{Sign: "leo"}, 50).Return(stale, nil).Once()
	svc.ListReadings(ctx, "leo", 0)
	assert.True(t, mr.Exists("astro:readings:leo"))

	repo.AssertExpectations(t)
}

func TestService_ListReadings_CacheDownFallsBackToStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	svc := newService(t)
	svc.Cache = redisCache.NewClient(rc)
	ctx := context.Background()

	mr.Close()

	h, err := svc.CreateHoroscope(ctx, domain.HoroscopeRequest{Sign: "pisces"})
	require.NoError(t, err)
	require.NotNil(t, h.ID)

	assert.Len(t, svc.ListReadings(ctx, "pisces", 0), 1)
}

func TestService_ArchiveReadings(t *testing.T) {
	svc := newService(t)
	archive := &fakeArchive{}
	svc.Archive = archive
	ctx := context.Background()

	for _, sign := range []string{"aries", "taurus"} {
		_, err := svc.CreateHoroscope(ctx, domain.HoroscopeRequest{Sign: sign})
		require.NoError(t, err)
	}

	n, err := svc.ArchiveReadings(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, ok := archive.files["2024/03/15.json"]
	require.True(t, ok)

	var file struct {
		Date  string            `json:"date"`
		Count int               `json:"count"`
		Items []*domain.Reading `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, "2024-03-15", file.Date)
	assert.Equal(t, 2, file.Count)
	assert.Len(t, file.Items, 2)

	n, err = svc.ArchiveReadings(ctx, fixedNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, archive.files, "2024/03/14.json")
}

func TestService_ArchiveReadings_Errors(t *testing.T) {
	t.Run("upload fails", func(t *testing.T) {
		svc := newService(t)
		svc.Archive = &fakeArchive{err: errors.New("403")}

		_, err := svc.ArchiveReadings(context.Background(), fixedNow)
		assert.Error(t, err)
	})

	t.Run("store fails", func(t *testing.T) {
		repo := &MockReadingRepo{}
		repo.On("List", mock.Anything, domain.ReadingFilter{Date: "2024-03-15"}, 10000).
			Return(nil, domain.ErrStorageUnavailable)

		svc := horoscope.New(repo, nil, nil, &fakeArchive{}, nil, horoscope.Config{}, logger.NewNop())
		_, err := svc.ArchiveReadings(context.Background(), fixedNow)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})

	t.Run("limit reached is logged", func(t *testing.T) {
		repo := &MockReadingRepo{}
		repo.On("List", mock.Anything, domain.ReadingFilter{Date: "2024-03-15"}, 2).
			Return([]*domain.Reading{{ID: "1"}, {ID: "2"}}, nil)

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))
		svc := horoscope.New(repo, nil, nil, &fakeArchive{}, nil, horoscope.Config{ArchiveLimit: 2}, log)

		n, err := svc.ArchiveReadings(context.Background(), fixedNow)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Contains(t, buf.String(), "readings archive reached the limit")
	})

	t.Run("archive not configured", func(t *testing.T) {
		svc := newService(t)
		n, err := svc.ArchiveReadings(context.Background(), fixedNow)
		assert.NoError(t, err)
		assert.Zero(t, n)
	})
}
