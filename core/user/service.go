package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/teachhub/backend/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// QueryPendingTeachers returns inactive users holding the teacher role,
		// oldest registration first.
		QueryPendingTeachers(ctx context.Context) ([]User, error)
		// UpdateUser only saves set fields; IsActive is updated when non-nil.
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
	}

	ServiceInterface interface {
		CheckUniqueness(email string, exclUsers ...User) error
		RegisterStudent(ctx context.Context, nu NewUser) (User, error)
		RegisterTeacher(ctx context.Context, nu NewUser) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		PendingTeachers(ctx context.Context) ([]User, error)
		ApproveTeacher(ctx context.Context, id string) (User, error)
		SetLastLogin(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *Service) CheckUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclUsers...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) create(ctx context.Context, nu NewUser, role string, isActive bool) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

// RegisterStudent creates an active student account.
func (svc *Service) RegisterStudent(ctx context.Context, nu NewUser) (User, error) {
	return svc.create(ctx, nu, RoleStudent, true)
}

// RegisterTeacher creates an inactive teacher account pending admin approval
// and notifies the admin.
func (svc *Service) RegisterTeacher(ctx context.Context, nu NewUser) (User, error) {
	usr, err := svc.create(ctx, nu, RoleTeacher, false)
	if err != nil {
		return User{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: svc.conf.AdminEmail}},
		Subject: "Teacher approval requested",
		BodyStr: fmt.Sprintf("%s <%s> registered as a teacher and is awaiting approval.", usr.Name, usr.Email),
	})
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) PendingTeachers(ctx context.Context) ([]User, error) {
	return svc.repo.QueryPendingTeachers(ctx)
}

// ApproveTeacher activates a pending teacher account and notifies them.
func (svc *Service) ApproveTeacher(ctx context.Context, id string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	isActive := true
	usr.UpdatedAt = time.Now().UTC()
	usr, err = svc.repo.UpdateUser(ctx, usr, &isActive)
	if err != nil {
		return User{}, errors.Wrap(err, "updating user")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Your teacher account has been approved",
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour account has been approved. You can now log in at %s.", usr.Name, svc.conf.FrontendBaseURL),
	})
	return usr, nil
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr, nil)
}
