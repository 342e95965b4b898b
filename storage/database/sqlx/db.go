package sqlxrepos

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgreSQL error codes translated at the repository boundary.
const (
	pgUniqueViolation     = pq.ErrorCode("23505")
	pgForeignKeyViolation = pq.ErrorCode("23503")
)

// isPGError reports whether err is a PostgreSQL error with the given code.
func isPGError(err error, code pq.ErrorCode) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == code
}
