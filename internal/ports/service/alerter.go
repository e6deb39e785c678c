package service

import "context"

// IAlerterService отправка операционных алертов
type IAlerterService interface {
	SendAlert(ctx context.Context, message string) error
}
