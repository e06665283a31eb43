package domain

import (
	"errors"
	"fmt"
)

// Общие доменные ошибки
var (
	ErrNotFound   = notFoundError("not found")
	ErrValidation = validationError("invalid data")
	ErrSkipped    = skipError("skipping")
	ErrDownstream = downstreamError("downstream call failed")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }

type skipError string

func (e skipError) Error() string { return string(e) }

type downstreamError string

func (e downstreamError) Error() string { return string(e) }

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Skipf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSkipped, fmt.Sprintf(format, args...))
}

// Downstream оборачивает ошибку внешней системы, сохраняя исходное сообщение.
func Downstream(system string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrDownstream, system, err)
}

// StatusFor переводит ошибку шага в статус журнала.
func StatusFor(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrSkipped):
		return StatusSkipped
	default:
		return StatusFailed
	}
}
