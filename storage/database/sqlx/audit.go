package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/audit"
)

const auditColumns = `id, created_at, actor_id, actor_email, action, target_type, target_id, detail`

type auditRepository struct {
	db *sqlx.DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *sqlx.DB) audit.Repository {
	return &auditRepository{db: db}
}

func (repo *auditRepository) CreateEntry(ctx context.Context, entry audit.Entry) error {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO audit_log (id, created_at, actor_id, actor_email, action, target_type, target_id, detail)
		VALUES (:id, :created_at, :actor_id, :actor_email, :action, :target_type, :target_id, :detail)`,
		entry,
	)
	return errors.Wrap(err, "inserting audit entry")
}

func (repo *auditRepository) FilterEntries(ctx context.Context, filter audit.QueryFilter) ([]audit.Entry, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if filter.Action != "" {
		args = append(args, filter.Action)
		where = append(where, fmt.Sprintf(`action = $%d`, len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		where = append(where,
			`(actor_email ILIKE `+p+` OR action ILIKE `+p+` OR target_type ILIKE `+p+` OR target_id ILIKE `+p+`)`)
	}

	var clause string
	if len(where) > 0 {
		clause = ` WHERE ` + strings.Join(where, " AND ")
	}

	var total int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`+clause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "counting audit entries")
	}

	args = append(args, core.AuditPageSize, core.Offset(filter.Page, core.AuditPageSize))
	query := fmt.Sprintf(
		`SELECT `+auditColumns+` FROM audit_log`+clause+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)-1, len(args),
	)

	var entries []audit.Entry
	if err := repo.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering audit entries")
	}
	return entries, total, nil
}
