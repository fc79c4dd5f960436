package common

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse тело ответа при любой ошибке
type ErrorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
} // @name ErrorResponse

func ErrResponse(
	c *fiber.Ctx,
	code int,
	message string,
) error {
	return c.Status(code).JSON(ErrorResponse{
		Status:    code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
