package dummydb

import (
	"sort"

	"github.com/trezcool/eduportal/core/announce"
)

type announcementRepository struct {
	db *announcementTable
}

var _ announce.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *DB) announce.Repository {
	return &announcementRepository{db: db.announce}
}

func (repo *announcementRepository) query() []announce.Announcement {
	anns := make([]announce.Announcement, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		anns = append(anns, *a)
	}
	// pinned first, then newest first
	sort.Slice(anns, func(i, j int) bool {
		if anns[i].Pinned != anns[j].Pinned {
			return anns[i].Pinned
		}
		return anns[i].CreatedAt.After(anns[j].CreatedAt)
	})
	return anns
}

func (repo *announcementRepository) CreateAnnouncement(ann announce.Announcement) (announce.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[ann.ID] = &ann
	return ann, nil
}

func (repo *announcementRepository) QueryAllAnnouncements() ([]announce.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *announcementRepository) GetAnnouncementByID(id string) (announce.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ann, ok := repo.db.table[id]; ok {
		return *ann, nil
	}
	return announce.Announcement{}, announce.ErrNotFound
}

func (repo *announcementRepository) UpdateAnnouncement(ann announce.Announcement) (announce.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origAnn, ok := repo.db.table[ann.ID]
	if !ok {
		return announce.Announcement{}, announce.ErrNotFound
	}
	origAnn.Title = ann.Title
	origAnn.Body = ann.Body
	origAnn.UpdatedAt = ann.UpdatedAt

	repo.db.table[ann.ID] = origAnn
	return *origAnn, nil
}

func (repo *announcementRepository) SetAnnouncementPinned(id string, pinned bool) (announce.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ann, ok := repo.db.table[id]
	if !ok {
		return announce.Announcement{}, announce.ErrNotFound
	}
	ann.Pinned = pinned
	return *ann, nil
}

func (repo *announcementRepository) DeleteAnnouncementsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
