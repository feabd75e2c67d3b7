package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smarttech/storefront/internal/products"
	"github.com/smarttech/storefront/internal/storefront"
	pkgAuth "github.com/smarttech/storefront/pkg/auth"
	"github.com/smarttech/storefront/pkg/config"
	"github.com/smarttech/storefront/pkg/db/models"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/validate"
)

const (
	invalidCredentialsMessage = "Incorrect username or password"
	tokenType                 = "bearer"
)

// Service defines the behavior needed by the admin auth controllers.
type Service interface {
	Login(ctx context.Context, req storefront.AdminLogin) (storefront.Token, error)
	Profile(ctx context.Context, username string) (storefront.Admin, error)
	EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error
}

type adminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
	VerifyUnknown(password string) bool
	NeedsRehash(encoded string) bool
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Repo      adminRepository
	Hasher    passwordHasher
	JWTConfig config.JWTConfig
	Logger    *logger.Logger
}

type service struct {
	repo   adminRepository
	hasher passwordHasher
	jwtCfg config.JWTConfig
	logg   *logger.Logger
	now    func() time.Time
}

// NewService constructs the admin login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:   params.Repo,
		hasher: params.Hasher,
		jwtCfg: params.JWTConfig,
		logg:   logg,
		now:    time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req storefront.AdminLogin) (storefront.Token, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Struct(req); err != nil {
		return storefront.Token{}, err
	}
	ctx = s.logg.WithAdmin(ctx, req.Username)

	admin, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return storefront.Token{}, err
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AdminTokenPayload{
		AdminID:   admin.ID,
		Username:  admin.Username,
		Superuser: admin.IsSuperuser,
	})
	if err != nil {
		return storefront.Token{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	s.logg.Info(ctx, "admin.login.succeeded")
	return storefront.Token{AccessToken: token, TokenType: tokenType}, nil
}

func (s *service) authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}
	if admin == nil {
		s.hasher.VerifyUnknown(password)
		s.logg.Warn(ctx, "admin.login.unknown_user")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	ok, err := s.hasher.Verify(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		s.logg.Warn(ctx, "admin.login.bad_password")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !admin.IsActive {
		s.logg.Warn(ctx, "admin.login.inactive")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if s.hasher.NeedsRehash(admin.PasswordHash) {
		if hash, err := s.hasher.Hash(password); err == nil {
			if err := s.repo.UpdatePasswordHash(ctx, admin.ID, hash); err != nil {
				s.logg.Error(ctx, "admin.password.rehash_failed", err)
			}
		}
	}
	return admin, nil
}

func (s *service) Profile(ctx context.Context, username string) (storefront.Admin, error) {
	admin, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return storefront.Admin{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}
	if admin == nil || !admin.IsActive {
		return storefront.Admin{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Could not validate credentials")
	}
	return storefront.Admin{
		ID:          admin.ID,
		Username:    admin.Username,
		Email:       admin.Email,
		IsActive:    admin.IsActive,
		IsSuperuser: admin.IsSuperuser,
		CreatedAt:   products.FormatTime(admin.CreatedAt),
	}, nil
}

// EnsureAdmin creates the configured administrator when it does not exist yet.
// An existing account keeps its password.
func (s *service) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	username := strings.TrimSpace(cfg.Username)
	if username == "" || cfg.Password == "" {
		return fmt.Errorf("admin username and password are required")
	}
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup admin: %w", err)
	}
	if existing != nil {
		return nil
	}
	hash, err := s.hasher.Hash(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.Admin{
		Username:     username,
		Email:        cfg.Email,
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logg.Info(s.logg.WithAdmin(ctx, username), "admin.seeded")
	return nil
}
