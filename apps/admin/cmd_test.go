package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachhub/backend/core"
	"github.com/teachhub/backend/core/user"
	emailsvc "github.com/teachhub/backend/services/email"
	dummydb "github.com/teachhub/backend/storage/database/dummy"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	conf := &core.Config{AppName: "TeachHub", TestMode: true}

	// set up DB & repos
	db, err := dummydb.Open()
	require.NoError(t, err)
	usrRepo = dummydb.NewUserRepository(db)

	// start CLI
	return &commandLine{
		usrRepo: usrRepo,
		usrSvc:  user.NewService(usrRepo, emailsvc.NewConsoleServiceMock(conf), conf),
	}
}

func createUser(t *testing.T, name, email, pwd, role string, isActive bool) user.User {
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, usr.SetPassword(pwd))
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	migrationRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					assert.Equal(t, tt.wantErr, err)
				} else if tt.wantErrStr != "" {
					assert.EqualError(t, err, tt.wantErrStr)
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli := setup(t)

	createUser(t, "Existing", "taken@test.cd", "s3cr3tpwd", user.RoleStudent, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addadmin"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"addadmin", "-name", "Admin"}, wantErr: errHelp},
		{name: "no password", args: []string{"addadmin", "-name", "Admin", "-email", "admin@test.cd"}, wantErr: errHelp},
		{
			name:       "email taken",
			args:       []string{"addadmin", "-name", "Admin", "-email", "taken@test.cd"},
			extra:      extra{pwd: "s3cr3tpwd"},
			wantErrStr: `a user with email "taken@test.cd" already exists`,
		},
		{
			name:  "admin created",
			args:  []string{"addadmin", "-name", "Admin", "-email", "admin@test.cd"},
			extra: extra{pwd: "s3cr3tpwd"},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				usr, err := usrRepo.GetUserByEmail(context.Background(), "admin@test.cd")
				require.NoError(t, err)
				assert.Equal(t, user.RoleAdmin, usr.Role)
				assert.True(t, usr.IsActive)
				assert.NoError(t, usr.CheckPassword("s3cr3tpwd"))
			} else if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.EqualError(t, err, tt.wantErrStr)
			}
		})
	}
}

func Test_commandLine_approveTeacher(t *testing.T) {
	cli := setup(t)

	teacher := createUser(t, "Teacher", "teacher@test.cd", "s3cr3tpwd", user.RoleTeacher, false)
	createUser(t, "Student", "student@test.cd", "s3cr3tpwd", user.RoleStudent, true)

	tests := []cliTest{
		{name: "no args", args: []string{"approveteacher"}, wantErr: errHelp},
		{name: "user not found", args: []string{"approveteacher", "-email", "lol@test.cd"}, wantErr: user.ErrNotFound},
		{name: "not a teacher", args: []string{"approveteacher", "-email", "student@test.cd"}, wantErrStr: `"student@test.cd" is not a teacher account`},
		{name: "teacher approved", args: []string{"approveteacher", "-email", "Teacher@Test.CD"}},
		{name: "already approved", args: []string{"approveteacher", "-email", "teacher@test.cd"}, wantErrStr: `"teacher@test.cd" is already approved`},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := usrRepo.GetUserByID(context.Background(), teacher.ID)
				require.NoError(t, err)
				assert.True(t, refreshed.IsActive)
			} else if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.EqualError(t, err, tt.wantErrStr)
			}
		})
	}
}
