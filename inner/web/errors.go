package web

import (
	"errors"
	"fmt"

	"employeeapi/inner/common"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const internalServerError = "Internal Server Error"

// classify единственное место, где вид ошибки превращается в HTTP статус.
// Для известных видов возвращается их собственное сообщение, без обёрток сервиса.
func classify(err error) (int, string) {
	var (
		invalidParam common.InvalidParamError
		ruleErr      common.BusinessRuleViolation
		notFound     common.NotFoundError
		fiberErr     *fiber.Error
	)
	switch {
	case errors.As(err, &invalidParam):
		return fiber.StatusBadRequest, invalidParam.Message
	case errors.As(err, &ruleErr):
		return fiber.StatusBadRequest, ruleErr.Message
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, notFound.Message
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, err.Error()
	}
}

func statusOf(err error) int {
	code, _ := classify(err)
	return code
}

// ErrorHandler переводит ошибку обработчика в ErrorResponse.
// Ошибки хранилища логируются с причиной; клиенту уходит либо их текст,
// либо обезличенное сообщение со ссылкой на запись в логе.
func ErrorHandler(logger *common.Logger, metrics *Metrics, exposeStorageErrors bool) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code, message := classify(err)

		var failure *common.StorageFailure
		switch {
		case errors.As(err, &failure):
			ref := uuid.NewString()
			metrics.StorageFailure(failure.Op)
			logger.ErrorCtx(ctx, "storage failure",
				zap.String("op", failure.Op),
				zap.String("sqlstate", failure.Code),
				zap.String("ref", ref),
				zap.Error(failure.Cause))
			message = failure.Error()
			if !exposeStorageErrors {
				message = fmt.Sprintf("%s (ref %s)", internalServerError, ref)
			}
		case code == fiber.StatusInternalServerError:
			logger.ErrorCtx(ctx, "unhandled error", zap.Error(err))
			message = internalServerError
		default:
			logger.WarnCtx(ctx, "request rejected",
				zap.Int("status", code),
				zap.String("message", message))
		}

		return common.ErrResponse(ctx, code, message)
	}
}
