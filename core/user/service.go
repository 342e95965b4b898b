package user

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedUsers ...User) error
		CreateUser(user User) (User, error)
		QueryAllUsers() ([]User, error)
		// QueryUnverifiedUsers returns active users whose account has not been verified yet.
		QueryUnverifiedUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields and
		// paginates with core.UserPageSize. QueryFilter.Search does a
		// case-insensitive match on one of User.Name or User.Email.
		// It returns the requested page and the total match count.
		FilterUsers(filter QueryFilter) ([]User, int, error)
		UpdateUser(user User, isActive *bool) (User, error)
		SetUserVerified(id string) (User, error)
		SetUserLastLogin(id string, t time.Time) error
		DeleteUsersByID(ids ...string) error
	}

	Service struct {
		repo Repository
		mail core.EmailService
	}
)

func NewService(repo Repository, mail core.EmailService) *Service {
	return &Service{repo: repo, mail: mail}
}

func (svc *Service) CheckUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclUsers...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) QueryUnverified() ([]User, error) {
	return svc.repo.QueryUnverifiedUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) Filter(filter QueryFilter) ([]User, int, error) {
	filter.Clean()
	return svc.repo.FilterUsers(filter)
}

func (svc *Service) Update(id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Email:     uu.Email,
		Role:      uu.Role,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "setting password")
		}
	}
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

// Verify marks a user's account as verified and notifies them.
func (svc *Service) Verify(id string) (User, error) {
	usr, err := svc.repo.SetUserVerified(id)
	if err != nil {
		return User{}, err
	}
	svc.sendVerifiedEmail(usr)
	return usr, nil
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	now := time.Now().UTC()
	if err := svc.repo.SetUserLastLogin(usr.ID, now); err != nil {
		return User{}, err
	}
	usr.LastLogin.SetValid(now)
	return usr, nil
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteUsersByID(ids...)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mail == nil {
		return
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to " + core.Conf.AppName,
		BodyStr: fmt.Sprintf(
			"Hi %s,\r\n\r\nAn account has been created for you on %s as %s.\r\n"+
				"You will be able to sign in once an administrator verifies your account.\r\n",
			usr.Name, core.Conf.AppName, usr.Role,
		),
	})
}

func (svc *Service) sendVerifiedEmail(usr User) {
	if svc.mail == nil {
		return
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Your account has been verified",
		BodyStr: fmt.Sprintf(
			"Hi %s,\r\n\r\nYour %s account has been verified. You can now sign in at %s.\r\n",
			usr.Name, core.Conf.AppName, core.Conf.FrontendBaseURL,
		),
	})
}
