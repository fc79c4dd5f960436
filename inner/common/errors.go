package common

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// BusinessRuleViolation нарушение правила предметной области, текст уходит клиенту как есть
type BusinessRuleViolation struct {
	Message string `json:"message"`
}

func (err BusinessRuleViolation) Error() string {
	return err.Message
}

// NotFoundError представляет ошибку, когда сущность не найдена
type NotFoundError struct {
	Message string `json:"message"`
}

func (err NotFoundError) Error() string {
	return err.Message
}

// InvalidParamError некорректный параметр запроса (путь, query или тело)
type InvalidParamError struct {
	Message string `json:"message"`
}

func (err InvalidParamError) Error() string {
	return err.Message
}

// StorageFailure ошибка драйвера базы данных, обёрнутая вместе с операцией
type StorageFailure struct {
	// Op короткое имя операции хранилища: find, find_page, insert, update, delete
	Op      string
	Message string
	// Code SQLSTATE, если драйвер его сообщил
	Code  string
	Cause error
}

func NewStorageFailure(op, message string, cause error) *StorageFailure {
	return &StorageFailure{
		Op:      op,
		Message: message,
		Code:    sqlState(cause),
		Cause:   cause,
	}
}

func (err *StorageFailure) Error() string {
	if err.Cause == nil {
		return err.Message
	}
	return fmt.Sprintf("%s: %v", err.Message, err.Cause)
}

func (err *StorageFailure) Unwrap() error {
	return err.Cause
}

// sqlState достаёт код ошибки postgres для обоих поддерживаемых драйверов
func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
