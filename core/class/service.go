package class

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var ErrNotFound = errors.New("class not found")

type (
	Repository interface {
		// CreateClass persists the class. An unknown teacher reference yields
		// a core.ConflictError; nothing is written.
		CreateClass(cls Class) (Class, error)
		QueryAllClasses() ([]Class, error)
		GetClassByID(id string) (Class, error)
		UpdateClass(cls Class) (Class, error)
		DeleteClassesByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewClass) (Class, error) {
	now := time.Now().UTC()
	cls := Class{
		ID:         uuid.New().String(),
		Name:       nc.Name,
		GradeLevel: nc.GradeLevel,
		TeacherID:  null.NewString(nc.TeacherID, nc.TeacherID != ""),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateClass(cls)
}

func (svc *Service) QueryAll() ([]Class, error) {
	return svc.repo.QueryAllClasses()
}

func (svc *Service) GetByID(id string) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *Service) Update(id string, uc UpdateClass) (Class, error) {
	cls := Class{
		ID:         id,
		Name:       uc.Name,
		GradeLevel: uc.GradeLevel,
		TeacherID:  null.NewString(uc.TeacherID, uc.TeacherID != ""),
		UpdatedAt:  time.Now().UTC(),
	}
	return svc.repo.UpdateClass(cls)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteClassesByID(ids...)
}
