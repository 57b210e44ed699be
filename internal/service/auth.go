package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	pkg_hash "github.com/Skotchmaster/restaurant/pkg/hash"
	jwthelp "github.com/Skotchmaster/restaurant/pkg/jwt"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	Now           func() time.Time
}

type Session struct {
	Principal    models.Principal
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type RegisterInput struct {
	Email      string
	Password   string
	FullName   string
	Phone      string
	Address    string
	City       string
	PostalCode string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Customer, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return nil, validationf("Please fill in all required fields")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, validationf("Please enter a valid email address")
	}

	pwHash, err := pkg_hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	c := &models.Customer{
		Email:        in.Email,
		PasswordHash: pwHash,
		FullName:     in.FullName,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		City:         strings.TrimSpace(in.City),
		PostalCode:   strings.TrimSpace(in.PostalCode),
		CreatedAt:    s.now(),
	}
	if err := s.Repo.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			l.Warn("register_error", "status", 409, "reason", "email already registered")
			return nil, newError(ErrConflict, "Email already registered")
		}
		return nil, err
	}
	return c, nil
}

var errBadCredentials = errors.New("bad credentials")

func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	c, err := s.Repo.CustomerByEmail(ctx, email)
	if err == nil && !pkg_hash.CheckPassword(c.PasswordHash, password) {
		err = errBadCredentials
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, errBadCredentials) {
			l.Warn("login_error", "status", 401, "reason", "invalid email or password")
			return nil, newError(ErrUnauthorized, "Invalid email or password")
		}
		return nil, err
	}
	return s.issue(ctx, models.Principal{Kind: models.PrincipalCustomer, ID: c.ID, Name: c.FullName})
}

func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.admin_login")

	a, err := s.Repo.AdminByUsername(ctx, strings.TrimSpace(username))
	if err == nil && !pkg_hash.CheckPassword(a.PasswordHash, password) {
		err = errBadCredentials
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, errBadCredentials) {
			l.Warn("login_error", "status", 401, "reason", "invalid administrator credentials")
			return nil, newError(ErrUnauthorized, "Invalid administrator credentials.")
		}
		return nil, err
	}
	return s.issue(ctx, models.Principal{Kind: models.PrincipalAdmin, ID: a.ID, Name: a.Username})
}

func (s *AuthService) issue(ctx context.Context, p models.Principal) (*Session, error) {
	now := s.now()
	sess, rt, err := s.sign(p, now)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, rt); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	return sess, nil
}

func (s *AuthService) sign(p models.Principal, now time.Time) (*Session, *models.RefreshToken, error) {
	subject := strconv.FormatUint(uint64(p.ID), 10)

	accessExp := now.Add(tokens.AccessTTL)
	access, err := tokens.SignAccessToken(string(p.Kind), subject, p.Name, accessExp, s.AccessSecret)
	if err != nil {
		return nil, nil, err
	}

	jti := jwthelp.NewJTI()
	refreshExp := now.Add(tokens.RefreshTTL)
	refresh, err := tokens.SignRefreshToken(string(p.Kind), subject, jti, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	rt := &models.RefreshToken{
		PrincipalKind: string(p.Kind),
		PrincipalID:   p.ID,
		Token:         jwthelp.Sha256Hex(refresh),
		JTI:           jti,
		ExpiresAt:     refreshExp.Unix(),
	}
	return &Session{
		Principal:    p,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, rt, nil
}

// Principal resolves an access token into the identity it was issued for.
func (s *AuthService) Principal(accessToken string) (models.Principal, error) {
	claims, err := tokens.AccessClaimsFromToken(accessToken, s.AccessSecret)
	if err != nil {
		return models.Principal{}, err
	}
	return principalFrom(claims.Kind, claims.Subject, claims.Name)
}

func principalFrom(kind, subject, name string) (models.Principal, error) {
	k := models.PrincipalKind(kind)
	if !k.Valid() {
		return models.Principal{}, fmt.Errorf("%w: unknown principal kind %q", ErrUnauthorized, kind)
	}
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return models.Principal{}, fmt.Errorf("%w: bad subject", ErrUnauthorized)
	}
	return models.Principal{Kind: k, ID: uint(id), Name: name}, nil
}

// Refresh exchanges a refresh token for a new pair. The old token is revoked
// in the same transaction, so it works only once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	p, err := principalFrom(claims.Kind, claims.Subject, "")
	if err != nil {
		return nil, err
	}

	switch p.Kind {
	case models.PrincipalAdmin:
		a, err := s.Repo.GetAdmin(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: admin %d: %v", ErrUnauthorized, p.ID, err)
		}
		p.Name = a.Username
	case models.PrincipalCustomer:
		c, err := s.Repo.GetCustomer(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: customer %d: %v", ErrUnauthorized, p.ID, err)
		}
		p.Name = c.FullName
	}

	now := s.now()
	sess, next, err := s.sign(p, now)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, next, now); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) || errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_error", "status", 401, "reason", "refresh token revoked or unknown", "jti", claims.ID)
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

type Profile struct {
	Customer     *models.Customer     `json:"customer"`
	Orders       []models.Order       `json:"orders"`
	Reservations []models.Reservation `json:"reservations"`
}

// Profile loads a customer with their orders and the reservations booked
// under the same email address.
func (s *AuthService) Profile(ctx context.Context, customerID uint) (*Profile, error) {
	c, err := s.Repo.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, notFound(err, "Customer not found")
	}
	orders, err := s.Repo.ListCustomerOrders(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	res, err := s.Repo.ReservationsByEmail(ctx, c.Email)
	if err != nil {
		return nil, err
	}
	return &Profile{Customer: c, Orders: orders, Reservations: res}, nil
}

// EnsureAdmin creates the admin account if the username is free.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, validationf("admin username and password are required")
	}
	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return false, err
	}
	return s.Repo.EnsureAdmin(ctx, &models.Admin{Username: username, PasswordHash: pwHash})
}
