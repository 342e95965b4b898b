package main

import "github.com/trezcool/eduportal/core"

func (cli *commandLine) verifyUser(email string) error {
	usr, err := cli.usrRepo.GetUserByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	_, err = cli.usrRepo.SetUserVerified(usr.ID)
	return err
}
