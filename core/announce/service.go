package announce

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var ErrNotFound = errors.New("announcement not found")

type (
	Repository interface {
		CreateAnnouncement(ann Announcement) (Announcement, error)
		// QueryAllAnnouncements returns announcements pinned-first, newest first.
		QueryAllAnnouncements() ([]Announcement, error)
		GetAnnouncementByID(id string) (Announcement, error)
		UpdateAnnouncement(ann Announcement) (Announcement, error)
		SetAnnouncementPinned(id string, pinned bool) (Announcement, error)
		DeleteAnnouncementsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(na NewAnnouncement, authorID string) (Announcement, error) {
	now := time.Now().UTC()
	ann := Announcement{
		ID:        uuid.New().String(),
		Title:     na.Title,
		Body:      na.Body,
		AuthorID:  null.NewString(authorID, authorID != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateAnnouncement(ann)
}

func (svc *Service) QueryAll() ([]Announcement, error) {
	return svc.repo.QueryAllAnnouncements()
}

func (svc *Service) GetByID(id string) (Announcement, error) {
	return svc.repo.GetAnnouncementByID(id)
}

func (svc *Service) Update(id string, ua UpdateAnnouncement) (Announcement, error) {
	ann := Announcement{
		ID:        id,
		Title:     ua.Title,
		Body:      ua.Body,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateAnnouncement(ann)
}

// SetPinned pins or unpins an announcement on the dashboard.
func (svc *Service) SetPinned(id string, pinned bool) (Announcement, error) {
	return svc.repo.SetAnnouncementPinned(id, pinned)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteAnnouncementsByID(ids...)
}
