package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/nuthub-il/nuthub-backend/pkg/auth"
	"github.com/nuthub-il/nuthub-backend/pkg/config"
	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
	"github.com/nuthub-il/nuthub-backend/pkg/security"
)

// LoginResult carries a freshly minted access token and the account it
// was issued for.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service exposes back-office authentication operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	EnsureAdmin(ctx context.Context, email, password, name string) error
}

type service struct {
	repo        Repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService wires the authentication service.
func NewService(repo Repository, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth service requires a repository")
	}
	if jwtCfg.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth service requires a signing secret")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth service requires a logger")
	}
	return &service{
		repo:        repo,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		logg:        logg,
		now:         time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// Same error for unknown email and wrong password so the
			// response does not reveal which accounts exist.
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to look up user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to verify password")
	}
	if !ok {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "login rejected: bad password")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint access token")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user logged in")
	return &LoginResult{Token: token, User: user}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to look up user")
	}
	return user, nil
}

// EnsureAdmin creates the back-office admin account when it does not
// exist yet. Intended for first-boot seeding in non-production
// environments; an existing account is left untouched.
func (s *service) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "admin seed requires email and password")
	}

	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to check for existing admin")
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to hash admin password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		IsAdmin:      true,
	}
	if _, err := s.repo.CreateUser(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create admin user")
	}

	s.logg.Info(ctx, "seeded admin user")
	return nil
}
