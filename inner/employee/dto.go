package employee

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"employeeapi/inner/common"
	"employeeapi/inner/role"

	"github.com/shopspring/decimal"
)

// Entity строка таблицы employee, прошедшая все проверки
type Entity struct {
	Id         int64           `db:"id"`
	Name       string          `db:"name"`
	Salary     decimal.Decimal `db:"salary"`
	HiringDate common.Date     `db:"hiring_date"`
	Role       role.Role       `db:"role"`
}

func (e *Entity) toRepresentation() Representation {
	var id = e.Id
	var name = e.Name
	var salary = e.Salary
	var hiringDate = e.HiringDate
	var rep = Representation{
		Id:         &id,
		Name:       &name,
		Salary:     &salary,
		HiringDate: &hiringDate,
	}
	rep.SetRole(e.Role.String())
	return rep
}

// Representation сотрудник в том виде, в каком он приходит и уходит по HTTP.
// Любое поле может отсутствовать; роль хранится в верхнем регистре.
type Representation struct {
	Id         *int64
	Name       *string
	Salary     *decimal.Decimal
	HiringDate *common.Date
	role       *string
} // @name Employee

// representationJSON форма на проводе
type representationJSON struct {
	Id         *int64           `json:"id,omitempty"`
	Name       *string          `json:"name"`
	Salary     *decimal.Decimal `json:"salary"`
	HiringDate *common.Date     `json:"hiringDate"`
	Role       *string          `json:"role"`
}

// Role возвращает роль или nil, если она не задана
func (r *Representation) Role() *string {
	return r.role
}

// SetRole сохраняет роль в верхнем регистре
func (r *Representation) SetRole(value string) {
	upper := strings.ToUpper(value)
	r.role = &upper
}

// Equal сравнивает только по id; два представления без id не равны никогда
func (r Representation) Equal(other Representation) bool {
	if r.Id == nil || other.Id == nil {
		return false
	}
	return *r.Id == *other.Id
}

func (r Representation) MarshalJSON() ([]byte, error) {
	var out = struct {
		Id         *int64       `json:"id,omitempty"`
		Name       *string      `json:"name"`
		Salary     *json.Number `json:"salary"`
		HiringDate *common.Date `json:"hiringDate"`
		Role       *string      `json:"role"`
	}{
		Id:         r.Id,
		Name:       r.Name,
		HiringDate: r.HiringDate,
		Role:       r.role,
	}
	if r.Salary != nil {
		number := json.Number(fixedPoint(*r.Salary))
		out.Salary = &number
	}
	return json.Marshal(out)
}

func (r *Representation) UnmarshalJSON(data []byte) error {
	var in representationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Representation{
		Id:         in.Id,
		Name:       in.Name,
		Salary:     in.Salary,
		HiringDate: in.HiringDate,
	}
	if in.Role != nil {
		r.SetRole(*in.Role)
	}
	return nil
}

// String формат для логов: "id | name | salary | role | Hired At: dd/mm/yyyy"
func (r Representation) String() string {
	var id, name, salary, hired, roleName = "null", "null", "null", "null", "null"
	if r.Id != nil {
		id = strconv.FormatInt(*r.Id, 10)
	}
	if r.Name != nil {
		name = *r.Name
	}
	if r.Salary != nil {
		salary = fixedPoint(*r.Salary)
	}
	if r.role != nil {
		roleName = *r.role
	}
	if r.HiringDate != nil {
		hired = r.HiringDate.Format("02/01/2006")
	}
	return fmt.Sprintf("%s | %s | %s | %s | Hired At: %s", id, name, salary, roleName, hired)
}

// toEntity вызывается только после успешной проверки правил
func (r Representation) toEntity() (Entity, error) {
	parsed, err := role.Parse(*r.role)
	if err != nil {
		return Entity{}, err
	}
	var entity = Entity{
		Name:       *r.Name,
		Salary:     *r.Salary,
		HiringDate: *r.HiringDate,
		Role:       parsed,
	}
	if r.Id != nil {
		entity.Id = *r.Id
	}
	return entity, nil
}

// fixedPoint печатает число с тем количеством знаков после запятой, с которым оно пришло
func fixedPoint(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
