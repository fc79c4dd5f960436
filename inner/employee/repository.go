package employee

import (
	"context"
	"database/sql"
	"errors"

	"employeeapi/inner/common"

	"github.com/jmoiron/sqlx"
)

const (
	selectById = "SELECT id, name, salary, hiring_date, role FROM employee WHERE id = $1"
	selectPage = "SELECT id, name, salary, hiring_date, role FROM employee ORDER BY id LIMIT $1 OFFSET $2"
	insertOne  = "INSERT INTO employee (name, salary, hiring_date, role) VALUES ($1, $2, $3, $4) RETURNING id"
	updateOne  = "UPDATE employee SET name = $1, salary = $2, hiring_date = $3, role = $4 WHERE id = $5"
	deleteOne  = "DELETE FROM employee WHERE id = $1"
)

type Repository struct {
	db *sqlx.DB
}

func NewEmployeeRepository(database *sqlx.DB) *Repository {
	return &Repository{db: database}
}

// withStatement берёт соединение из пула и готовит один запрос.
// Соединение и запрос освобождаются при любом выходе.
func (r *Repository) withStatement(ctx context.Context, op, message, query string, fn func(stmt *sqlx.Stmt) error) error {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return common.NewStorageFailure(op, message, err)
	}
	defer func() { _ = conn.Close() }()

	stmt, err := conn.PreparexContext(ctx, query)
	if err != nil {
		return common.NewStorageFailure(op, message, err)
	}
	defer func() { _ = stmt.Close() }()

	if err := fn(stmt); err != nil {
		return common.NewStorageFailure(op, message, err)
	}
	return nil
}

// FindById второе значение false, если строки с таким id нет
func (r *Repository) FindById(ctx context.Context, id int64) (employee Entity, found bool, err error) {
	err = r.withStatement(ctx, "find", "Error selecting the employee", selectById, func(stmt *sqlx.Stmt) error {
		err := stmt.GetContext(ctx, &employee, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return Entity{}, false, err
	}
	return employee, found, nil
}

// FindPage строки упорядочены по id, поэтому страницы стабильны между вызовами
func (r *Repository) FindPage(ctx context.Context, limit, offset int) ([]Entity, error) {
	var employees = []Entity{}
	err := r.withStatement(ctx, "find_page", "Error selecting the employees", selectPage, func(stmt *sqlx.Stmt) error {
		return stmt.SelectContext(ctx, &employees, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// Insert возвращает сущность с присвоенным базой id
func (r *Repository) Insert(ctx context.Context, employee Entity) (Entity, error) {
	err := r.withStatement(ctx, "insert", "Error inserting the employee", insertOne, func(stmt *sqlx.Stmt) error {
		return stmt.QueryRowxContext(ctx,
			employee.Name, employee.Salary, employee.HiringDate, employee.Role,
		).Scan(&employee.Id)
	})
	if err != nil {
		return Entity{}, err
	}
	return employee, nil
}

// Update true, если строка с таким id существовала
func (r *Repository) Update(ctx context.Context, employee Entity) (bool, error) {
	var affected int64
	err := r.withStatement(ctx, "update", "Error updating the employee", updateOne, func(stmt *sqlx.Stmt) error {
		result, err := stmt.ExecContext(ctx,
			employee.Name, employee.Salary, employee.HiringDate, employee.Role, employee.Id,
		)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete true, если строка была удалена
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.withStatement(ctx, "delete", "Error deleting the employee", deleteOne, func(stmt *sqlx.Stmt) error {
		result, err := stmt.ExecContext(ctx, id)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
