package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/admin/astro-api/internal/domain"
	kafkaPorts "github.com/admin/astro-api/internal/ports/kafka"
	"github.com/admin/astro-api/internal/usecases/horoscope"
)

// HoroscopeRequestHandler генерирует гороскопы по сообщениям из топика запросов
type HoroscopeRequestHandler struct {
	HoroscopeService *horoscope.Service
	Log              *slog.Logger
}

func NewHoroscopeRequestHandler(horoscopeService *horoscope.Service, log *slog.Logger) kafkaPorts.MessageHandler {
	return &HoroscopeRequestHandler{
		HoroscopeService: horoscopeService,
		Log:              log,
	}
}

// HandleMessage невалидные сообщения логируются здесь и возвращаются как BusinessError
func (h *HoroscopeRequestHandler) HandleMessage(ctx context.Context, key string, value []byte) error {
	var req domain.HoroscopeRequest
	if err := json.Unmarshal(value, &req); err != nil {
		h.Log.Warn("invalid horoscope request message", "error", err, "key", key)
		return domain.WrapBusinessError(fmt.Errorf("failed to unmarshal horoscope request: %w", err))
	}

	result, err := h.HoroscopeService.CreateHoroscope(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.Log.Warn("rejected horoscope request", "error", err, "key", key, "sign", req.Sign)
			return domain.WrapBusinessError(err)
		}
		return fmt.Errorf("failed to create horoscope: %w", err)
	}

	h.Log.Info("horoscope generated from kafka",
		"key", key,
		"sign", result.Sign,
		"scope", result.Scope,
		"saved", result.ID != nil,
	)

	return nil
}
