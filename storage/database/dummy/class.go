package dummydb

import (
	"sort"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/class"
)

type classRepository struct {
	db    *classTable
	users *userTable
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db.class, users: db.user}
}

func (repo *classRepository) query() []class.Class {
	classes := make([]class.Class, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].GradeLevel != classes[j].GradeLevel {
			return classes[i].GradeLevel < classes[j].GradeLevel
		}
		return classes[i].Name < classes[j].Name
	})
	return classes
}

func (repo *classRepository) checkTeacherRef(teacherID string) error {
	if teacherID == "" {
		return nil
	}
	repo.users.RLock()
	defer repo.users.RUnlock()

	if _, ok := repo.users.table[teacherID]; !ok {
		return core.NewConflictError("the assigned homeroom teacher does not exist")
	}
	return nil
}

func (repo *classRepository) CreateClass(cls class.Class) (class.Class, error) {
	if err := repo.checkTeacherRef(cls.TeacherID.String); err != nil {
		return class.Class{}, err
	}

	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) QueryAllClasses() ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *classRepository) GetClassByID(id string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.db.table[id]; ok {
		return *cls, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) UpdateClass(cls class.Class) (class.Class, error) {
	if err := repo.checkTeacherRef(cls.TeacherID.String); err != nil {
		return class.Class{}, err
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	origCls, ok := repo.db.table[cls.ID]
	if !ok {
		return class.Class{}, class.ErrNotFound
	}
	origCls.Name = cls.Name
	origCls.GradeLevel = cls.GradeLevel
	origCls.TeacherID = cls.TeacherID
	origCls.UpdatedAt = cls.UpdatedAt

	repo.db.table[cls.ID] = origCls
	return *origCls, nil
}

func (repo *classRepository) DeleteClassesByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
