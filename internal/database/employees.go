package database

import "context"

const getEmployee = `
SELECT employee_id, name, role, email, hashed_password, pin
FROM employees
WHERE employee_id = $1
`

func (q *Queries) GetEmployee(ctx context.Context, employeeID int64) (Employee, error) {
	var e Employee
	err := q.db.QueryRow(ctx, getEmployee, employeeID).
		Scan(&e.EmployeeID, &e.Name, &e.Role, &e.Email, &e.HashedPassword, &e.Pin)
	return e, err
}

const getEmployeeByEmail = `
SELECT employee_id, name, role, email, hashed_password, pin
FROM employees
WHERE email = $1
`

func (q *Queries) GetEmployeeByEmail(ctx context.Context, email string) (Employee, error) {
	var e Employee
	err := q.db.QueryRow(ctx, getEmployeeByEmail, email).
		Scan(&e.EmployeeID, &e.Name, &e.Role, &e.Email, &e.HashedPassword, &e.Pin)
	return e, err
}

const getEmployeeByPin = `
SELECT employee_id, name, role, email, hashed_password, pin
FROM employees
WHERE pin = $1
`

func (q *Queries) GetEmployeeByPin(ctx context.Context, pin string) (Employee, error) {
	var e Employee
	err := q.db.QueryRow(ctx, getEmployeeByPin, pin).
		Scan(&e.EmployeeID, &e.Name, &e.Role, &e.Email, &e.HashedPassword, &e.Pin)
	return e, err
}

const createEmployee = `
INSERT INTO employees (name, role, email, hashed_password, pin)
VALUES ($1, $2, $3, $4, $5)
RETURNING employee_id, name, role, email, hashed_password, pin
`

type CreateEmployeeParams struct {
	Name           string
	Role           string
	Email          string
	HashedPassword string
	Pin            string
}

func (q *Queries) CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (Employee, error) {
	var e Employee
	err := q.db.QueryRow(ctx, createEmployee,
		arg.Name, arg.Role, nullText(arg.Email), nullText(arg.HashedPassword), nullText(arg.Pin)).
		Scan(&e.EmployeeID, &e.Name, &e.Role, &e.Email, &e.HashedPassword, &e.Pin)
	return e, err
}

func nullText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
