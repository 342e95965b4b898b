package dummydb

import (
	"sync"

	"github.com/trezcool/eduportal/core/announce"
	"github.com/trezcool/eduportal/core/audit"
	"github.com/trezcool/eduportal/core/class"
	"github.com/trezcool/eduportal/core/subject"
	"github.com/trezcool/eduportal/core/user"
)

type (
	DB struct {
		user     *userTable
		subject  *subjectTable
		class    *classTable
		announce *announcementTable
		audit    *auditTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	subjectTable struct {
		sync.RWMutex
		table map[string]*subject.Subject
	}

	classTable struct {
		sync.RWMutex
		table map[string]*class.Class
	}

	announcementTable struct {
		sync.RWMutex
		table map[string]*announce.Announcement
	}

	auditTable struct {
		sync.RWMutex
		entries []audit.Entry
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		subject:  &subjectTable{table: make(map[string]*subject.Subject)},
		class:    &classTable{table: make(map[string]*class.Class)},
		announce: &announcementTable{table: make(map[string]*announce.Announcement)},
		audit:    &auditTable{},
	}
	return db, nil
}
