package subject

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("subject not found")

type (
	Repository interface {
		// CreateSubject persists the subject. A duplicate code yields a
		// core.ConflictError naming the code; nothing is written.
		CreateSubject(sub Subject) (Subject, error)
		QueryAllSubjects() ([]Subject, error)
		GetSubjectByID(id string) (Subject, error)
		UpdateSubject(sub Subject) (Subject, error)
		DeleteSubjectsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ns NewSubject) (Subject, error) {
	now := time.Now().UTC()
	sub := Subject{
		ID:          uuid.New().String(),
		Code:        ns.Code,
		Name:        ns.Name,
		Description: ns.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateSubject(sub)
}

func (svc *Service) QueryAll() ([]Subject, error) {
	return svc.repo.QueryAllSubjects()
}

func (svc *Service) GetByID(id string) (Subject, error) {
	return svc.repo.GetSubjectByID(id)
}

func (svc *Service) Update(id string, us UpdateSubject) (Subject, error) {
	sub := Subject{
		ID:          id,
		Code:        us.Code,
		Name:        us.Name,
		Description: us.Description,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateSubject(sub)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteSubjectsByID(ids...)
}
