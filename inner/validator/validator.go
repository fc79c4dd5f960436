package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"employeeapi/inner/role"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	var messages []string
	for _, err := range ve.Errors {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// Option настройка валидатора
type Option func(*Validator)

// WithClock подменяет источник текущего времени для тега notfuture
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	// decimal.Decimal проверяется как строка, без перехода через float64
	v.validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.mustRegister("notblank", notBlank)
	v.mustRegister("positive", positiveDecimal)
	v.mustRegister("notfuture", v.notFuture)
	v.mustRegister("employee_role", employeeRole)
	return v
}

func (v *Validator) mustRegister(tag string, fn validator.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate проверяет структуру по её тегам validate
func (v *Validator) Validate(request any) error {
	err := v.validate.Struct(request)
	if err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			return v.formatValidationErrors(validateErrs)
		}
		return err
	}
	return nil
}

// Var проверяет одно значение по тегу, например "gt=0" или "notblank"
func (v *Validator) Var(field any, tag string) error {
	err := v.validate.Var(field, tag)
	if err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			return v.formatValidationErrors(validateErrs)
		}
		return err
	}
	return nil
}

func (v *Validator) formatValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors []ValidationError

	for _, err := range errs {
		validationError := ValidationError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Value:   fmt.Sprintf("%v", err.Value()),
			Message: v.getErrorMessage(err),
		}
		validationErrors = append(validationErrors, validationError)
	}

	return ValidationErrors{Errors: validationErrors}
}

func (v *Validator) getErrorMessage(err validator.FieldError) string {
	field := err.Field()
	if field == "" {
		field = "value"
	}
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' required", field)
	case "numeric":
		return fmt.Sprintf("Field '%s' must contain only numbers", field)
	case "oneof":
		return fmt.Sprintf("Field '%s' must be one of [%s]", field, err.Param())
	case "gt":
		return fmt.Sprintf("Field '%s' must be greater than %s", field, err.Param())
	case "gte":
		return fmt.Sprintf("Field '%s' must be greater than or equal to %s", field, err.Param())
	case "notblank":
		return fmt.Sprintf("Field '%s' can't be blank", field)
	case "positive":
		return fmt.Sprintf("Field '%s' must be positive", field)
	case "notfuture":
		return fmt.Sprintf("Field '%s' can't be in the future", field)
	case "employee_role":
		return fmt.Sprintf("Field '%s' must be one of %s", field, role.Available())
	default:
		return fmt.Sprintf("Field '%s' contains an incorrect value", field)
	}
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// строка из одних пробельных символов считается пустой
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

func positiveDecimal(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(field.String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}

// дата (без времени) не позже сегодняшней по локальным часам
func (v *Validator) notFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	today := v.now()
	y, m, d := today.Date()
	ty, tm, td := t.Date()
	return !time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func employeeRole(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	_, err := role.Parse(field.String())
	return err == nil
}
