package subject

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduportal/core"
)

type Subject struct {
	ID          string    `json:"id" db:"id"`
	Code        string    `json:"subject_code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Code        string `json:"subject_code" validate:"required,max=20,alphanum_"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Code = core.CleanString(ns.Code, true /* lower */)
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
	return validate.Struct(ns)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
type UpdateSubject struct {
	Code        string `json:"subject_code" validate:"omitempty,max=20,alphanum_"`
	Name        string `json:"name" validate:"omitempty,max=100"`
	Description string `json:"description"`
}

func (us *UpdateSubject) Validate(origSub Subject, validate *validator.Validate) error {
	code := core.CleanString(us.Code, true /* lower */)
	if code != "" {
		us.Code = code
	} else {
		us.Code = origSub.Code
	}

	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = origSub.Name
	}

	us.Description = core.CleanString(us.Description)
	if us.Description == "" {
		us.Description = origSub.Description
	}
	return validate.Struct(us)
}
