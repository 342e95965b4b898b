package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/user"
)

const userColumns = `id, name, email, role, is_verified, is_active, password_hash, created_at, updated_at, last_login`

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pq.Array(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.QueryRow(query, args...).Scan(&exists); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO users (id, name, email, role, is_verified, is_active, password_hash, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :is_verified, :is_active, :password_hash, :created_at, :updated_at)`,
		usr,
	)
	if err != nil {
		if isPGError(err, pgUniqueViolation) {
			return user.User{}, core.NewConflictError(user.ErrEmailExists.Error())
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var users []user.User
	err := repo.db.Select(&users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	return users, errors.Wrap(err, "querying users")
}

func (repo *userRepository) QueryUnverifiedUsers() ([]user.User, error) {
	var users []user.User
	err := repo.db.Select(&users,
		`SELECT `+userColumns+` FROM users WHERE NOT is_verified AND is_active ORDER BY created_at DESC`)
	return users, errors.Wrap(err, "querying unverified users")
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	var usr user.User
	if err := repo.db.Get(&usr, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by id")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	var usr user.User
	if err := repo.db.Get(&usr, `SELECT `+userColumns+` FROM users WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by email")
	}
	return usr, nil
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, int, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		where = append(where, `(name ILIKE `+p+` OR email ILIKE `+p+`)`)
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, fmt.Sprintf(`role = $%d`, len(args)))
	}
	if filter.IsVerified != nil {
		args = append(args, *filter.IsVerified)
		where = append(where, fmt.Sprintf(`is_verified = $%d`, len(args)))
	}

	var clause string
	if len(where) > 0 {
		clause = ` WHERE ` + strings.Join(where, " AND ")
	}

	var total int
	if err := repo.db.QueryRow(`SELECT COUNT(*) FROM users`+clause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "counting users")
	}

	args = append(args, core.UserPageSize, core.Offset(filter.Page, core.UserPageSize))
	query := fmt.Sprintf(
		`SELECT `+userColumns+` FROM users`+clause+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)-1, len(args),
	)

	var users []user.User
	if err := repo.db.Select(&users, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering users")
	}
	return users, total, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	sets := []string{`name = $2`, `email = $3`, `role = $4`, `updated_at = $5`}
	args := []interface{}{usr.ID, usr.Name, usr.Email, usr.Role, usr.UpdatedAt}

	if usr.PasswordHash != nil {
		args = append(args, usr.PasswordHash)
		sets = append(sets, fmt.Sprintf(`password_hash = $%d`, len(args)))
	}
	if isActive != nil {
		args = append(args, *isActive)
		sets = append(sets, fmt.Sprintf(`is_active = $%d`, len(args)))
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	var updated user.User
	if err := repo.db.Get(&updated, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		if isPGError(err, pgUniqueViolation) {
			return user.User{}, core.NewConflictError(user.ErrEmailExists.Error())
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return updated, nil
}

func (repo *userRepository) SetUserVerified(id string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr,
		`UPDATE users SET is_verified = TRUE, updated_at = $2 WHERE id = $1 RETURNING `+userColumns,
		id, time.Now().UTC(),
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "verifying user")
	}
	return usr, nil
}

func (repo *userRepository) SetUserLastLogin(id string, t time.Time) error {
	_, err := repo.db.Exec(`UPDATE users SET last_login = $2 WHERE id = $1`, id, t)
	return errors.Wrap(err, "setting last login")
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.Exec(`DELETE FROM users WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting users")
}
