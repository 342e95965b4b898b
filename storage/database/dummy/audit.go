package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/audit"
)

type auditRepository struct {
	db *auditTable
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *DB) audit.Repository {
	return &auditRepository{db: db.audit}
}

func (repo *auditRepository) CreateEntry(_ context.Context, entry audit.Entry) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.entries = append(repo.db.entries, entry)
	return nil
}

func (repo *auditRepository) FilterEntries(_ context.Context, filter audit.QueryFilter) ([]audit.Entry, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]audit.Entry, len(repo.db.entries))
	copy(entries, repo.db.entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })

	if filter.Action != "" {
		var filtered []audit.Entry
		for _, e := range entries {
			if e.Action == filter.Action {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		var filtered []audit.Entry
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.ActorEmail.String), search) ||
				strings.Contains(strings.ToLower(string(e.Action)), search) ||
				strings.Contains(strings.ToLower(e.TargetType), search) ||
				strings.Contains(strings.ToLower(e.TargetID), search) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	total := len(entries)
	return paginate(entries, filter.Page, core.AuditPageSize), total, nil
}
