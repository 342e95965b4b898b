package dummydb

import (
	"fmt"
	"sort"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/subject"
)

type subjectRepository struct {
	db *subjectTable
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db.subject}
}

func (repo *subjectRepository) query() []subject.Subject {
	subs := make([]subject.Subject, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		subs = append(subs, *s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Code < subs[j].Code })
	return subs
}

func (repo *subjectRepository) CreateSubject(sub subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.Code == sub.Code {
			return subject.Subject{}, core.NewConflictError(fmt.Sprintf("subject code %q is already in use", sub.Code))
		}
	}
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *subjectRepository) QueryAllSubjects() ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *subjectRepository) GetSubjectByID(id string) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.table[id]; ok {
		return *sub, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) UpdateSubject(sub subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origSub, ok := repo.db.table[sub.ID]
	if !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	for id, existing := range repo.db.table {
		if id != sub.ID && existing.Code == sub.Code {
			return subject.Subject{}, core.NewConflictError(fmt.Sprintf("subject code %q is already in use", sub.Code))
		}
	}
	origSub.Code = sub.Code
	origSub.Name = sub.Name
	origSub.Description = sub.Description
	origSub.UpdatedAt = sub.UpdatedAt

	repo.db.table[sub.ID] = origSub
	return *origSub, nil
}

func (repo *subjectRepository) DeleteSubjectsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
