package employee

import (
	"fmt"

	"employeeapi/inner/common"
	"employeeapi/inner/role"
)

const (
	msgNameNull        = "The name can't be null"
	msgSalaryNull      = "The salary can't be null"
	msgHiringDateNull  = "The hiring date can't be null"
	msgNameBlank       = "The name can't be blank"
	msgSalaryPositive  = "The salary must be positive"
	msgHiringDateAfter = "The hiring date can't be after today"
	msgRoleMissing     = "You must specify the employee role"

	msgIdNull     = "The ID cannot be null"
	msgIdNegative = "ID number must be grater than 0"
	msgSizeRange  = "The 'size' must be greater than 0"
	msgPageRange  = "The 'page' must be greater than 0"
)

type Validator interface {
	Var(field any, tag string) error
}

// check одно правило: значение, тег валидатора и сообщение при нарушении
type check struct {
	value   any
	tag     string
	message string
}

// validateRepresentation применяет правила по порядку и возвращает первое нарушение.
// Проверки на nil идут до тегов: nil-указатель валидатору не передаётся.
func validateRepresentation(v Validator, rep Representation) error {
	switch {
	case rep.Name == nil:
		return common.BusinessRuleViolation{Message: msgNameNull}
	case rep.Salary == nil:
		return common.BusinessRuleViolation{Message: msgSalaryNull}
	case rep.HiringDate == nil:
		return common.BusinessRuleViolation{Message: msgHiringDateNull}
	}

	var checks = []check{
		{value: *rep.Name, tag: "notblank", message: msgNameBlank},
		{value: *rep.Salary, tag: "positive", message: msgSalaryPositive},
		{value: rep.HiringDate.Time, tag: "notfuture", message: msgHiringDateAfter},
	}
	if err := runChecks(v, checks); err != nil {
		return err
	}

	if rep.Role() == nil {
		return common.BusinessRuleViolation{Message: msgRoleMissing}
	}
	var roleName = *rep.Role()
	return runChecks(v, []check{
		{value: roleName, tag: "notblank", message: msgRoleMissing},
		{value: roleName, tag: "employee_role", message: invalidRoleMessage(roleName)},
	})
}

// validateId id обязателен и не может быть отрицательным; ноль допустим
func validateId(v Validator, id *int64) error {
	if id == nil {
		return common.BusinessRuleViolation{Message: msgIdNull}
	}
	return runChecks(v, []check{{value: *id, tag: "gte=0", message: msgIdNegative}})
}

// validatePage size проверяется раньше page
func validatePage(v Validator, page, size int) error {
	return runChecks(v, []check{
		{value: size, tag: "gt=0", message: msgSizeRange},
		{value: page, tag: "gt=0", message: msgPageRange},
	})
}

func runChecks(v Validator, checks []check) error {
	for _, c := range checks {
		if err := v.Var(c.value, c.tag); err != nil {
			return common.BusinessRuleViolation{Message: c.message}
		}
	}
	return nil
}

func invalidRoleMessage(value string) string {
	return fmt.Sprintf("Invalid role: %s. Available roles: %s", value, role.Available())
}
