package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/class"
)

const classColumns = `id, name, grade_level, teacher_id, created_at, updated_at`

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(cls class.Class) (class.Class, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO classes (id, name, grade_level, teacher_id, created_at, updated_at)
		VALUES (:id, :name, :grade_level, :teacher_id, :created_at, :updated_at)`,
		cls,
	)
	if err != nil {
		if isPGError(err, pgForeignKeyViolation) {
			return class.Class{}, core.NewConflictError("the assigned homeroom teacher does not exist")
		}
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo *classRepository) QueryAllClasses() ([]class.Class, error) {
	var classes []class.Class
	err := repo.db.Select(&classes, `SELECT `+classColumns+` FROM classes ORDER BY grade_level, name`)
	return classes, errors.Wrap(err, "querying classes")
}

func (repo *classRepository) GetClassByID(id string) (class.Class, error) {
	var cls class.Class
	if err := repo.db.Get(&cls, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return class.Class{}, class.ErrNotFound
		}
		return class.Class{}, errors.Wrap(err, "getting class by id")
	}
	return cls, nil
}

func (repo *classRepository) UpdateClass(cls class.Class) (class.Class, error) {
	var updated class.Class
	err := repo.db.Get(&updated, `
		UPDATE classes SET name = $2, grade_level = $3, teacher_id = $4, updated_at = $5
		WHERE id = $1 RETURNING `+classColumns,
		cls.ID, cls.Name, cls.GradeLevel, cls.TeacherID, cls.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return class.Class{}, class.ErrNotFound
		}
		if isPGError(err, pgForeignKeyViolation) {
			return class.Class{}, core.NewConflictError("the assigned homeroom teacher does not exist")
		}
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	return updated, nil
}

func (repo *classRepository) DeleteClassesByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.Exec(`DELETE FROM classes WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting classes")
}
