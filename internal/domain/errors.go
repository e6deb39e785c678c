package domain

import "errors"

var (
	// ErrInvalidInput ошибка входных данных, отдаётся клиенту как 400
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidDate дата рождения не распознана или не попала ни в один знак
	ErrInvalidDate = &InputError{Reason: "Invalid date"}
	// ErrUnknownSign знак не входит в двенадцать канонических
	ErrUnknownSign = &InputError{Reason: "Unknown sign"}

	// ErrStorageUnavailable любая ошибка хранилища документов
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrMalformedFilter фильтр выборки не может быть применён
	ErrMalformedFilter = errors.New("malformed filter")
)

// InputError ошибка валидации запроса, Reason уходит клиенту как есть
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// BusinessError ошибка бизнес-логики, которая уже залогирована в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}
