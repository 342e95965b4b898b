package announce

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eduportal/core"
)

type Announcement struct {
	ID        string      `json:"id" db:"id"`
	Title     string      `json:"title" db:"title"`
	Body      string      `json:"body" db:"body"`
	Pinned    bool        `json:"pinned" db:"pinned"`
	AuthorID  null.String `json:"author_id" db:"author_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// NewAnnouncement contains information needed to create a new Announcement.
type NewAnnouncement struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Body = core.CleanString(na.Body)
	return validate.Struct(na)
}

// UpdateAnnouncement defines what information may be provided to modify an
// existing Announcement.
type UpdateAnnouncement struct {
	Title string `json:"title" validate:"omitempty,max=200"`
	Body  string `json:"body"`
}

func (ua *UpdateAnnouncement) Validate(origAnn Announcement, validate *validator.Validate) error {
	title := core.CleanString(ua.Title)
	if title != "" {
		ua.Title = title
	} else {
		ua.Title = origAnn.Title
	}

	ua.Body = core.CleanString(ua.Body)
	if ua.Body == "" {
		ua.Body = origAnn.Body
	}
	return validate.Struct(ua)
}
