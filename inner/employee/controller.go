package employee

import (
	"context"
	"fmt"
	"strconv"

	"employeeapi/inner/common"
	"employeeapi/inner/web"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultPage = 1
	defaultSize = 10
)

type Controller struct {
	server          *web.Server
	employeeService Svc
	logger          *common.Logger
}

// интерфейс сервиса employee.Service
type Svc interface {
	GetById(ctx context.Context, id int64) (Representation, error)
	List(ctx context.Context, page, size int) ([]Representation, error)
	Create(ctx context.Context, rep Representation) (Representation, error)
	Update(ctx context.Context, id *int64, rep Representation) (Representation, error)
	Delete(ctx context.Context, id *int64) error
}

func NewController(server *web.Server, employeeService Svc, logger *common.Logger) *Controller {
	return &Controller{
		server:          server,
		employeeService: employeeService,
		logger:          logger,
	}
}

// функция для регистрации маршрутов
func (c *Controller) RegisterRoutes() {
	app := c.server.App
	app.Get("/employee", c.ListEmployees)
	app.Post("/employee", c.CreateEmployee)
	app.Get("/employee/:id", c.GetEmployee)
	app.Put("/employee/:id", c.UpdateEmployee)
	app.Delete("/employee/:id", c.DeleteEmployee)
	// без id в пути сервис сам ответит "The ID cannot be null"
	app.Put("/employee", c.UpdateEmployee)
	app.Delete("/employee", c.DeleteEmployee)
}

// GetEmployee
// @Summary Get an employee by id
// @Tags employee
// @Produce json
// @Param id path int true "Employee id"
// @Success 200 {object} Representation
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /employee/{id} [get]
func (c *Controller) GetEmployee(ctx *fiber.Ctx) error {
	id, err := pathId(ctx)
	if err != nil {
		return err
	}
	employee, err := c.employeeService.GetById(ctx.UserContext(), *id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(employee)
}

// ListEmployees
// @Summary List employees page by page, ordered by id
// @Tags employee
// @Produce json
// @Param page query int false "Page number, starts at 1" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {array} Representation
// @Failure 400 {object} common.ErrorResponse
// @Router /employee [get]
func (c *Controller) ListEmployees(ctx *fiber.Ctx) error {
	page, err := queryInt(ctx, "page", defaultPage)
	if err != nil {
		return err
	}
	size, err := queryInt(ctx, "size", defaultSize)
	if err != nil {
		return err
	}
	employees, err := c.employeeService.List(ctx.UserContext(), page, size)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(employees)
}

// CreateEmployee
// @Summary Create an employee
// @Tags employee
// @Accept json
// @Produce json
// @Param employee body Representation true "Employee without id"
// @Success 201 {object} Representation
// @Failure 400 {object} common.ErrorResponse
// @Router /employee [post]
func (c *Controller) CreateEmployee(ctx *fiber.Ctx) error {
	// анмаршалим JSON body запроса в Representation
	request, err := parseBody(ctx)
	if err != nil {
		return err
	}

	created, err := c.employeeService.Create(ctx.UserContext(), request)
	if err != nil {
		return err
	}
	c.logger.InfoCtx(ctx, "employee created", zap.Int64("id", *created.Id))
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// UpdateEmployee
// @Summary Replace an employee
// @Tags employee
// @Accept json
// @Produce json
// @Param id path int true "Employee id"
// @Param employee body Representation true "New employee state"
// @Success 200 {object} Representation
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /employee/{id} [put]
func (c *Controller) UpdateEmployee(ctx *fiber.Ctx) error {
	id, err := pathId(ctx)
	if err != nil {
		return err
	}
	request, err := parseBody(ctx)
	if err != nil {
		return err
	}

	updated, err := c.employeeService.Update(ctx.UserContext(), id, request)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(updated)
}

// DeleteEmployee
// @Summary Delete an employee
// @Tags employee
// @Param id path int true "Employee id"
// @Success 204
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /employee/{id} [delete]
func (c *Controller) DeleteEmployee(ctx *fiber.Ctx) error {
	id, err := pathId(ctx)
	if err != nil {
		return err
	}
	if err := c.employeeService.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	c.logger.InfoCtx(ctx, "employee deleted", zap.Int64("id", *id))
	return ctx.SendStatus(fiber.StatusNoContent)
}

// parseBody тело всегда читается как JSON, заголовок Content-Type не проверяется
func parseBody(ctx *fiber.Ctx) (Representation, error) {
	var request Representation
	if err := ctx.App().Config().JSONDecoder(ctx.Body(), &request); err != nil {
		return Representation{}, common.InvalidParamError{Message: err.Error()}
	}
	return request, nil
}

// pathId nil, если id в пути нет
func pathId(ctx *fiber.Ctx) (*int64, error) {
	raw := ctx.Params("id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, common.InvalidParamError{Message: "The 'id' parameter must be a numeric value."}
	}
	return &id, nil
}

// queryInt пустой или отсутствующий параметр заменяется значением по умолчанию
func queryInt(ctx *fiber.Ctx, name string, fallback int) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, common.InvalidParamError{Message: fmt.Sprintf("The '%s' field must be a numeric value", name)}
	}
	return int(value), nil
}
