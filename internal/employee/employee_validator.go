package employee

import (
	"context"
	"strings"

	employeeerrors "go-employees/internal/employee/errors"
	"go-employees/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
)

// candidate is a request after whitespace normalization, checked with
// struct tags before the uniqueness read.
type candidate struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,max=254,email"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Role       *string `json:"role" validate:"omitempty,max=100"`
}

// ValidatedEmployee holds the normalized mutable fields of an accepted request.
type ValidatedEmployee struct {
	Name       string
	Email      string
	Department *string
	Role       *string
}

// EmailLookup is the read the validator needs from storage.
type EmailLookup interface {
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}

type Validator struct {
	lookup   EmailLookup
	validate *validator.Validate
}

func NewValidator(lookup EmailLookup) *Validator {
	v := validator.New()
	apperror.RegisterJSONTagNames(v)
	return &Validator{lookup: lookup, validate: v}
}

// Validate checks req for a create (excludeID == 0) or for an update of the
// record excludeID. Field problems come back as *apperror.ValidationError;
// any other error is a storage failure from the uniqueness read.
func (v *Validator) Validate(ctx context.Context, req EmployeeRequest, excludeID int64) (ValidatedEmployee, error) {
	verr := apperror.NewValidationError()

	c := candidate{
		Department: trimPtr(req.Department),
		Role:       trimPtr(req.Role),
	}
	if req.Name == nil {
		verr.Add("name", apperror.MsgRequired)
	} else {
		c.Name = strings.TrimSpace(*req.Name)
		if c.Name == "" {
			verr.Add("name", employeeerrors.MsgNameEmpty)
		}
	}
	if req.Email == nil {
		verr.Add("email", apperror.MsgRequired)
	} else {
		c.Email = strings.TrimSpace(*req.Email)
	}

	if err := v.validate.Struct(c); err != nil {
		// a missing key already reported "required"; skip the tag error for it
		for field, msgs := range apperror.MapValidationError(err).Fields {
			if verr.Has(field) {
				continue
			}
			for _, msg := range msgs {
				verr.Add(field, msg)
			}
		}
	}

	if !verr.Has("email") {
		taken, err := v.lookup.ExistsByEmail(ctx, c.Email, excludeID)
		if err != nil {
			return ValidatedEmployee{}, err
		}
		if taken {
			verr.Merge(employeeerrors.ErrEmailTaken())
		}
	}

	if !verr.Empty() {
		return ValidatedEmployee{}, verr
	}

	return ValidatedEmployee{
		Name:       c.Name,
		Email:      c.Email,
		Department: c.Department,
		Role:       c.Role,
	}, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
