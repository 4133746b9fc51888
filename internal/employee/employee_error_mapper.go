package employee

import (
	"errors"
	"strings"

	employeeerrors "go-employees/internal/employee/errors"
	"go-employees/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation = "23505"
	emailConstraint   = "uq_employees_email"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.WrapAs(employeeerrors.ErrEmployeeNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == emailConstraint {
			return employeeerrors.ErrEmailTaken()
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, emailConstraint) {
		return employeeerrors.ErrEmailTaken()
	}

	return err
}
