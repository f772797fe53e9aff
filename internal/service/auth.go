package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	pkg_hash "github.com/Skotchmaster/restaurant/pkg/hash"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

type AuthService struct {
	Repo         *repo.GormRepo
	JWTSecret    []byte
	TokenTTL     time.Duration
	// PasswordCost is the bcrypt cost for new digests; zero means the bcrypt default.
	PasswordCost int
}

type LoginResult struct {
	Token string
	Role  string
}

func (s *AuthService) issueToken(u *models.User) (string, error) {
	exp := time.Now().Add(s.TokenTTL)
	return tokens.SignAccessToken(strconv.FormatUint(uint64(u.ID), 10), u.Username, tokens.RoleFor(u.IsSuperuser), exp, s.JWTSecret)
}

// Register creates a customer account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, "", newErr(ErrValidation, "username is required")
	}
	if req.Password == "" {
		return nil, "", newErr(ErrValidation, "password is required")
	}

	pwHash, err := pkg_hash.HashPassword(req.Password, s.PasswordCost)
	if errors.Is(err, pkg_hash.ErrPasswordTooLong) {
		return nil, "", newErr(ErrValidation, "password must be at most %d bytes", pkg_hash.MaxPasswordBytes)
	}
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Email:        strings.TrimSpace(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, "", newErr(ErrValidation, "A user with that username already exists.")
		}
		return nil, "", err
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, "", err
	}
	l.Info("user_registered", "user_id", user.ID)
	return &user, token, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown user")
			return nil, newErr(ErrValidation, "Invalid credentials")
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, newErr(ErrValidation, "Invalid credentials")
	}

	if pkg_hash.NeedsRehash(user.PasswordHash, s.PasswordCost) {
		s.rehash(ctx, user.ID, password)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Role: tokens.RoleFor(user.IsSuperuser)}, nil
}

// rehash upgrades a stored digest to the configured cost. Failure only logs.
func (s *AuthService) rehash(ctx context.Context, userID uint, password string) {
	l := logging.FromContext(ctx)
	digest, err := pkg_hash.HashPassword(password, s.PasswordCost)
	if err == nil {
		err = s.Repo.SetUserPasswordHash(ctx, userID, digest)
	}
	if err != nil {
		l.Warn("password_rehash_failed", "user_id", userID, "error", err)
		return
	}
	l.Info("password_rehashed", "user_id", userID)
}

// SeedAdmin creates the superuser account unless one with that name exists.
// Empty credentials disable seeding.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	pwHash, err := pkg_hash.HashPassword(password, s.PasswordCost)
	if err != nil {
		return err
	}
	admin := models.User{Username: username, PasswordHash: pwHash, IsSuperuser: true}
	err = s.Repo.CreateUserIfNotExists(ctx, &admin)
	if errors.Is(err, repo.ErrUserAlreadyExist) {
		return nil
	}
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("admin_seeded", "username", username)
	return nil
}
