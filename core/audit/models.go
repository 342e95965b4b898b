package audit

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eduportal/core"
)

// Action enumerates the privileged mutations recorded in the audit log.
type Action string

const (
	ActionUserCreated  Action = "user.created"
	ActionUserUpdated  Action = "user.updated"
	ActionUserDeleted  Action = "user.deleted"
	ActionUserVerified Action = "user.verified"

	ActionSubjectCreated Action = "subject.created"
	ActionSubjectUpdated Action = "subject.updated"
	ActionSubjectDeleted Action = "subject.deleted"

	ActionClassCreated Action = "class.created"
	ActionClassUpdated Action = "class.updated"
	ActionClassDeleted Action = "class.deleted"

	ActionAnnouncementCreated  Action = "announcement.created"
	ActionAnnouncementUpdated  Action = "announcement.updated"
	ActionAnnouncementDeleted  Action = "announcement.deleted"
	ActionAnnouncementPinned   Action = "announcement.pinned"
	ActionAnnouncementUnpinned Action = "announcement.unpinned"
)

// Entry is an immutable record of a privileged action. Entries are only ever
// created and read; there is no update or delete path.
type Entry struct {
	ID         string      `json:"id" db:"id"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"` // UTC
	ActorID    null.String `json:"actor_id" db:"actor_id"`
	ActorEmail null.String `json:"actor_email" db:"actor_email"`
	Action     Action      `json:"action" db:"action"`
	TargetType string      `json:"target_type" db:"target_type"`
	TargetID   string      `json:"target_id" db:"target_id"`
	Detail     string      `json:"detail" db:"detail"`
}

type QueryFilter struct {
	// Action filters entries by exact action tag.
	Action Action `query:"action"`
	// Search does a case-insensitive match on actor email, action or target.
	Search string `query:"search"`
	Page   int    `query:"page"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Action == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
