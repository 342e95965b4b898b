package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/user"
)

// addUser creates a verified, active admin account; an existing account with
// the same email is promoted instead.
func (cli *commandLine) addUser(name, email, pwd string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			ID:        uuid.New().String(),
			Name:      name,
			Email:     email,
			Role:      user.RoleAdmin,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		if usr, err = cli.usrRepo.CreateUser(usr); err != nil {
			return err
		}
		_, err = cli.usrRepo.SetUserVerified(usr.ID)
		return err
	}

	usr.Name = name
	usr.Role = user.RoleAdmin
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	isActive := true
	if _, err = cli.usrRepo.UpdateUser(usr, &isActive); err != nil {
		return err
	}
	_, err = cli.usrRepo.SetUserVerified(usr.ID)
	return err
}
