package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/repo"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/appforge/clientportal/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*SignInOutput, error)
	Resolve(ctx context.Context, token string) (model.Identity, error)
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

type SignInOutput struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type authService struct {
	users       repo.UserRepo
	issuer      *session.Issuer
	adminEmails map[string]struct{}
	cost        int
	log         *zap.Logger
}

// NewAuthService grants the admin role at sign-up to any address in
// adminEmails.
func NewAuthService(users repo.UserRepo, issuer *session.Issuer, adminEmails []string, log *zap.Logger) AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &authService{users: users, issuer: issuer, adminEmails: admins, cost: bcrypt.DefaultCost, log: log}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Invalid("invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Invalid("password must be at least %d characters", minPasswordLen)
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperr.ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	role := model.RoleClient
	if _, ok := s.adminEmails[email]; ok {
		role = model.RoleAdmin
	}
	u := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, err
	}

	s.log.Sugar().Infow("user signed up", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*SignInOutput, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	issuedAt := now()
	tok, err := s.issuer.Issue(u.ID, u.Email, string(u.Role), issuedAt)
	if err != nil {
		return nil, err
	}
	return &SignInOutput{Token: tok, ExpiresAt: issuedAt.Add(s.issuer.TTL()), User: u}, nil
}

// Resolve reloads the user so role changes apply to live sessions.
func (s *authService) Resolve(ctx context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, apperr.ErrUnauthenticated
	}
	userID, _, err := s.issuer.Parse(token)
	if err != nil {
		return model.Identity{}, apperr.ErrUnauthenticated
	}
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Identity{}, apperr.ErrUnauthenticated
	}
	if err != nil {
		return model.Identity{}, err
	}
	if _, err := model.ParseRole(string(u.Role)); err != nil {
		s.log.Sugar().Warnw("user has unknown role", "user_id", u.ID, "role", u.Role)
		return model.Identity{}, apperr.ErrUnauthenticated
	}
	return u.Identity(), nil
}
