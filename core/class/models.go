package class

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eduportal/core"
)

type Class struct {
	ID         string      `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	GradeLevel int         `json:"grade_level" db:"grade_level"`
	TeacherID  null.String `json:"teacher_id" db:"teacher_id"` // homeroom teacher
	CreatedAt  time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name       string `json:"name" validate:"required,max=100"`
	GradeLevel int    `json:"grade_level" validate:"required,min=1,max=13"`
	TeacherID  string `json:"teacher_id" validate:"omitempty,uuid4"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name       string `json:"name" validate:"omitempty,max=100"`
	GradeLevel int    `json:"grade_level" validate:"omitempty,min=1,max=13"`
	TeacherID  string `json:"teacher_id" validate:"omitempty,uuid4"`
}

func (uc *UpdateClass) Validate(origCls Class, validate *validator.Validate) error {
	name := core.CleanString(uc.Name)
	if name != "" {
		uc.Name = name
	} else {
		uc.Name = origCls.Name
	}

	if uc.GradeLevel == 0 {
		uc.GradeLevel = origCls.GradeLevel
	}
	if uc.TeacherID == "" {
		uc.TeacherID = origCls.TeacherID.String
	}
	return validate.Struct(uc)
}
