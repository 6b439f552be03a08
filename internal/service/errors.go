package service

import (
	"errors"
)

var (
	// ErrStorageUpload — объектное хранилище не приняло файл после всех
	// попыток.
	ErrStorageUpload = errors.New("file upload failed")
	// ErrPersistence — транзакция заявка+документ не зафиксировалась.
	ErrPersistence = errors.New("failed to save assignment")
	// ErrNotFound — запрошенная заявка отсутствует.
	ErrNotFound = errors.New("submission not found")
)

// ValidationError — отказ проверки входных данных; Details попадает в
// тело 400-ответа.
type ValidationError struct {
	Message string
	Details string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
