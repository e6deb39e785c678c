package horoscope

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/admin/astro-api/internal/domain"
)

// CreateHoroscope генерирует гороскоп и пытается сохранить его.
// Ошибка только на невалидный знак; недоступность хранилища даёт ID == nil.
func (s *Service) CreateHoroscope(ctx context.Context, req domain.HoroscopeRequest) (*domain.Horoscope, error) {
	sign, err := domain.ParseSign(req.Sign)
	if err != nil {
		return nil, err
	}

	scope := normalizeScope(req.Scope)
	now := s.Now()

	content, err := Generate(sign.String(), scope, now)
	if err != nil {
		return nil, err
	}

	reading := &domain.Reading{
		Sign:    sign,
		Date:    now.UTC().Format(domain.DateLayout),
		Content: content,
	}

	s.Metrics.ObserveReading(sign.String(), scopeLabel(scope))

	return &domain.Horoscope{
		Date:    reading.Date,
		Sign:    sign,
		Scope:   scope,
		Content: content,
		ID:      s.SaveReading(ctx, reading, scope),
	}, nil
}

// SaveReading сохраняет чтение; при ошибке хранилища логирует и возвращает nil
func (s *Service) SaveReading(ctx context.Context, reading *domain.Reading, scope string) *string {
	if err := s.ReadingRepo.Create(ctx, reading); err != nil {
		s.Log.Warn("failed to save reading, continuing without id",
			"error", err,
			"sign", reading.Sign,
			"date", reading.Date,
		)
		s.Metrics.ObserveStoreFailure("save")
		return nil
	}

	s.invalidateCache(ctx, reading.Sign.String())
	s.publishCreated(ctx, reading, scope)

	id := reading.ID
	return &id
}

// ListReadings возвращает сохранённые чтения; при любой ошибке пустой список
func (s *Service) ListReadings(ctx context.Context, sign string, limit int) []*domain.Reading {
	sign = strings.ToLower(strings.TrimSpace(sign))
	limit = s.normalizeLimit(limit)

	cacheable := s.Cache != nil && limit == s.Cfg.ListLimit && (sign == "" || domain.Sign(sign).IsValid())
	var epoch uint64
	if cacheable {
		if readings, ok := s.readCache(ctx, sign); ok {
			return readings
		}
		epoch = s.cacheEpoch.Load()
	}

	readings, err := s.ReadingRepo.List(ctx, domain.ReadingFilter{Sign: sign}, limit)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedFilter) {
			s.Log.Info("malformed readings filter", "error", err, "sign", sign)
		} else {
			s.Log.Warn("failed to list readings, returning empty list", "error", err, "sign", sign)
			s.Metrics.ObserveStoreFailure("list")
		}
		return []*domain.Reading{}
	}

	if cacheable && s.cacheEpoch.Load() == epoch {
		s.writeCache(ctx, sign, readings)
	}

	return readings
}

// scopeLabel scope свободный, в метрики попадают только стандартные значения
func scopeLabel(scope string) string {
	switch strings.ToLower(scope) {
	case domain.ScopeDaily, domain.ScopeWeekly, domain.ScopeMonthly:
		return strings.ToLower(scope)
	default:
		return "other"
	}
}

func (s *Service) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.Cfg.ListLimit
	}
	if limit > s.Cfg.MaxListLimit {
		return s.Cfg.MaxListLimit
	}
	return limit
}

func cacheKey(sign string) string {
	if sign == "" {
		sign = "all"
	}
	return "astro:readings:" + sign
}

func (s *Service) readCache(ctx context.Context, sign string) ([]*domain.Reading, bool) {
	raw, err := s.Cache.Get(ctx, cacheKey(sign))
	if err != nil {
		s.Metrics.ObserveCache(false)
		return nil, false
	}

	var readings []*domain.Reading
	if err := json.Unmarshal([]byte(raw), &readings); err != nil {
		s.Log.Debug("invalid cached readings", "error", err, "key", cacheKey(sign))
		s.Metrics.ObserveCache(false)
		return nil, false
	}

	s.Metrics.ObserveCache(true)
	if readings == nil {
		readings = []*domain.Reading{}
	}
	return readings, true
}

func (s *Service) writeCache(ctx context.Context, sign string, readings []*domain.Reading) {
	raw, err := json.Marshal(readings)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, cacheKey(sign), string(raw), s.Cfg.CacheTTL); err != nil {
		s.Log.Debug("failed to cache readings", "error", err, "key", cacheKey(sign))
	}
}

// invalidateCache сбрасывает списки знака и общий список
func (s *Service) invalidateCache(ctx context.Context, sign string) {
	if s.Cache == nil {
		return
	}
	s.cacheEpoch.Add(1)
	if err := s.Cache.Delete(ctx, cacheKey(sign), cacheKey("")); err != nil {
		s.Log.Warn("failed to invalidate readings cache", "error", err, "sign", sign)
	}
}

func (s *Service) publishCreated(ctx context.Context, reading *domain.Reading, scope string) {
	if s.Events == nil {
		return
	}

	event := domain.ReadingCreatedEvent{
		ID:        reading.ID,
		Sign:      reading.Sign,
		Scope:     scope,
		Date:      reading.Date,
		CreatedAt: s.Now().UTC(),
	}

	if err := s.Events.PublishReadingCreated(ctx, event); err != nil {
		s.Log.Warn("failed to publish reading event", "error", err, "id", reading.ID)
	}
}
