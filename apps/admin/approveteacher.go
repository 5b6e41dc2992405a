package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/teachhub/backend/core"
)

func (cli *commandLine) approveTeacher(email string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsTeacher() {
		return errors.Errorf("%q is not a teacher account", email)
	}
	if usr.IsActive {
		return errors.Errorf("%q is already approved", email)
	}
	if _, err := cli.usrSvc.ApproveTeacher(ctx, usr.ID); err != nil {
		return err
	}
	return nil
}
