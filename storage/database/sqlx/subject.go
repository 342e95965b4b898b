package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/subject"
)

const subjectColumns = `id, code, name, description, created_at, updated_at`

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(sub subject.Subject) (subject.Subject, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO subjects (id, code, name, description, created_at, updated_at)
		VALUES (:id, :code, :name, :description, :created_at, :updated_at)`,
		sub,
	)
	if err != nil {
		if isPGError(err, pgUniqueViolation) {
			return subject.Subject{}, core.NewConflictError(fmt.Sprintf("subject code %q is already in use", sub.Code))
		}
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return sub, nil
}

func (repo *subjectRepository) QueryAllSubjects() ([]subject.Subject, error) {
	var subs []subject.Subject
	err := repo.db.Select(&subs, `SELECT `+subjectColumns+` FROM subjects ORDER BY code`)
	return subs, errors.Wrap(err, "querying subjects")
}

func (repo *subjectRepository) GetSubjectByID(id string) (subject.Subject, error) {
	var sub subject.Subject
	if err := repo.db.Get(&sub, `SELECT `+subjectColumns+` FROM subjects WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return subject.Subject{}, subject.ErrNotFound
		}
		return subject.Subject{}, errors.Wrap(err, "getting subject by id")
	}
	return sub, nil
}

func (repo *subjectRepository) UpdateSubject(sub subject.Subject) (subject.Subject, error) {
	var updated subject.Subject
	err := repo.db.Get(&updated, `
		UPDATE subjects SET code = $2, name = $3, description = $4, updated_at = $5
		WHERE id = $1 RETURNING `+subjectColumns,
		sub.ID, sub.Code, sub.Name, sub.Description, sub.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return subject.Subject{}, subject.ErrNotFound
		}
		if isPGError(err, pgUniqueViolation) {
			return subject.Subject{}, core.NewConflictError(fmt.Sprintf("subject code %q is already in use", sub.Code))
		}
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	return updated, nil
}

func (repo *subjectRepository) DeleteSubjectsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.Exec(`DELETE FROM subjects WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting subjects")
}
