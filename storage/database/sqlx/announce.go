package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core/announce"
)

const announcementColumns = `id, title, body, pinned, author_id, created_at, updated_at`

type announcementRepository struct {
	db *sqlx.DB
}

var _ announce.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *sqlx.DB) announce.Repository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) CreateAnnouncement(ann announce.Announcement) (announce.Announcement, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO announcements (id, title, body, pinned, author_id, created_at, updated_at)
		VALUES (:id, :title, :body, :pinned, :author_id, :created_at, :updated_at)`,
		ann,
	)
	if err != nil {
		return announce.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return ann, nil
}

func (repo *announcementRepository) QueryAllAnnouncements() ([]announce.Announcement, error) {
	var anns []announce.Announcement
	err := repo.db.Select(&anns,
		`SELECT `+announcementColumns+` FROM announcements ORDER BY pinned DESC, created_at DESC`)
	return anns, errors.Wrap(err, "querying announcements")
}

func (repo *announcementRepository) GetAnnouncementByID(id string) (announce.Announcement, error) {
	var ann announce.Announcement
	if err := repo.db.Get(&ann, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return announce.Announcement{}, announce.ErrNotFound
		}
		return announce.Announcement{}, errors.Wrap(err, "getting announcement by id")
	}
	return ann, nil
}

func (repo *announcementRepository) UpdateAnnouncement(ann announce.Announcement) (announce.Announcement, error) {
	var updated announce.Announcement
	err := repo.db.Get(&updated, `
		UPDATE announcements SET title = $2, body = $3, updated_at = $4
		WHERE id = $1 RETURNING `+announcementColumns,
		ann.ID, ann.Title, ann.Body, ann.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return announce.Announcement{}, announce.ErrNotFound
		}
		return announce.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	return updated, nil
}

func (repo *announcementRepository) SetAnnouncementPinned(id string, pinned bool) (announce.Announcement, error) {
	var updated announce.Announcement
	err := repo.db.Get(&updated,
		`UPDATE announcements SET pinned = $2 WHERE id = $1 RETURNING `+announcementColumns,
		id, pinned,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return announce.Announcement{}, announce.ErrNotFound
		}
		return announce.Announcement{}, errors.Wrap(err, "pinning announcement")
	}
	return updated, nil
}

func (repo *announcementRepository) DeleteAnnouncementsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.Exec(`DELETE FROM announcements WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting announcements")
}
