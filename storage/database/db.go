package database

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
)

// Open connects to the configured PostgreSQL database.
func Open() (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", core.Conf.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "pinging database")
	}
	return db, nil
}
