// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	deliverycontext "cyberauth/internal/delivery/context"
	"cyberauth/internal/domain/entity"
	domainerrors "cyberauth/internal/domain/errors"
	"cyberauth/internal/domain/repository"
	"cyberauth/internal/domain/service"
	"cyberauth/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// PasswordMinLength is the shortest password accepted at registration.
const PasswordMinLength = 6

// emailValidator checks address syntax for callers that bypass the HTTP validator.
var emailValidator = validator.New()

// timingPassword is hashed once at construction and compared against when a login names an unknown email,
// so both failure paths pay for one bcrypt comparison.
const timingPassword = "cyberauth-unknown-account"

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
	now          func() time.Time
	dummyHash    string
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return newUserService(params, time.Now)
}

func newUserService(params UserServiceParams, now func() time.Time) *userService {
	srv := &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
		now:          now,
	}

	hash, err := srv.hasher.Hash(timingPassword)
	if err != nil {
		srv.logger.Warn("Failed to prepare timing hash", slog.Any("error", err))
	}
	srv.dummyHash = hash

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the account and returns it together with a fresh token.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}
	email := entity.NormalizeEmail(input.Email)

	srv.log(ctx).Info("Starting registration", slog.String("email", email), slog.String("role", input.Role.String()))

	// Hash outside the transaction; bcrypt is CPU-bound.
	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         input.Role,
		CreatedAt:    srv.now().UTC(),
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, email)
		if findErr == nil {
			return domainerrors.ErrDuplicateEmail.WrapMessage("registration rejected")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check existing user")
		}

		// The store's unique index still rejects a concurrent registration that passed the check.
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateEmail) {
			srv.log(ctx).Warn("Registration rejected: email taken", slog.String("email", email))
		} else {
			srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", email), slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	token, err := srv.issueToken(user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.String("userID", user.ID))

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// Login verifies the credentials. An unknown email and a wrong password both yield
// InvalidCredentials; a corrupted stored hash yields MalformedHash.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("login input is required")
	}
	email := entity.NormalizeEmail(input.Email)

	srv.log(ctx).Debug("Starting user login", slog.String("email", email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.equaliseTiming(input.Password)
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "unknown email"))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	ok, err := srv.hasher.Check(input.Password, user.PasswordHash)
	if err != nil {
		srv.log(ctx).Error("Stored password hash is unusable", slog.String("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !ok {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "password mismatch"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, err := srv.issueToken(user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("User logged in successfully", slog.String("userID", user.ID))

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// Authenticate validates the token and loads the user named by its subject.
func (srv *userService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	email, err := srv.tokenService.Validate(token, srv.now())
	if err != nil {
		return nil, errors.Wrap(err, "token rejected")
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "token subject no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load token subject")
	}

	return user, nil
}

func (srv *userService) issueToken(user *entity.User) (string, error) {
	token, err := srv.tokenService.Issue(user.Email, srv.now(), srv.tokenService.TokenTTL())
	if err != nil {
		return "", errors.Wrap(err, "failed to issue access token")
	}

	return token, nil
}

// equaliseTiming spends one hash comparison on a request whose email has no account.
func (srv *userService) equaliseTiming(password string) {
	if srv.dummyHash == "" {
		return
	}
	_, _ = srv.hasher.Check(password, srv.dummyHash)
}

func validateRegisterInput(input *usecase.RegisterInput) error {
	if input == nil {
		return domainerrors.ErrValidationFailed.WithDetails("registration input is required")
	}

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return domainerrors.ErrValidationFailed.WithDetails("name is required")
	case utf8.RuneCountInString(name) > entity.NameMaxLength:
		return domainerrors.ErrValidationFailed.WithDetails("name is too long")
	case entity.NormalizeEmail(input.Email) == "":
		return domainerrors.ErrValidationFailed.WithDetails("email is required")
	case emailValidator.Var(entity.NormalizeEmail(input.Email), "email") != nil:
		return domainerrors.ErrValidationFailed.WithDetails("email is not a valid address")
	case utf8.RuneCountInString(input.Password) < PasswordMinLength:
		return domainerrors.ErrValidationFailed.WithDetails("password is too short")
	case !input.Role.IsValid():
		return domainerrors.ErrValidationFailed.WithDetails("role is not recognised")
	}

	return nil
}
