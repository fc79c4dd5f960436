package role

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role должность сотрудника, закрытый набор значений
type Role string

const (
	Intern   Role = "INTERN"
	Junior   Role = "JUNIOR"
	MidLevel Role = "MID_LEVEL"
	Senior   Role = "SENIOR"
)

// порядок важен: он же попадает в текст ошибки
var values = []Role{Intern, Junior, MidLevel, Senior}

// Values возвращает все роли в каноническом порядке
func Values() []Role {
	return append([]Role(nil), values...)
}

// Parse ищет роль по имени без учёта регистра; пробелы вокруг не обрезаются
func Parse(name string) (Role, error) {
	upper := strings.ToUpper(name)
	for _, r := range values {
		if string(r) == upper {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid role: %s", name)
}

// Available список ролей в виде "[INTERN, JUNIOR, MID_LEVEL, SENIOR]"
func Available() string {
	roles := Values()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Value() (driver.Value, error) {
	if _, err := Parse(string(r)); err != nil {
		return nil, err
	}
	return string(r), nil
}

func (r *Role) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	parsed, err := Parse(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
