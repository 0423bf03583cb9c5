package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/auth"
	"github.com/justsurfingit/alumni-hub/internal/dtos"
	"github.com/justsurfingit/alumni-hub/internal/models"
	"github.com/justsurfingit/alumni-hub/internal/session"
)

type TokenIssuer interface {
	Issue(user *models.User) (string, time.Time, error)
}

type UserService struct {
	Users  UserStore
	Tokens TokenIssuer
}

func NewUserService(users UserStore, tokens TokenIssuer) *UserService {
	return &UserService{Users: users, Tokens: tokens}
}

var errBadCredentials = apperr.Unauthorized("Invalid email or password")

func (s *UserService) Register(ctx context.Context, req *dtos.RegisterRequest) (*dtos.AuthResponse, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, apperr.New(apperr.KindBadRequest, "Role must be student or alumni", err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.BadRequest("Name is required")
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.BadRequest(err.Error())
	}

	user := &models.User{
		Name:         name,
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, req *dtos.LoginRequest) (*dtos.AuthResponse, error) {
	user, err := s.Users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, errBadCredentials
	}
	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*dtos.AuthResponse, error) {
	token, expiresAt, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &dtos.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Profile(ctx context.Context) (*models.User, error) {
	p, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.Users.GetUser(ctx, p.UserID)
}

// UpdateProfile replaces the caller's profile document and, when given, their name.
func (s *UserService) UpdateProfile(ctx context.Context, req *dtos.ProfileUpdateRequest) (*models.User, error) {
	p, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	user.Profile = datatypes.NewJSONType(req.Profile)
	if err := s.Users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListAlumni is the mentor directory.
func (s *UserService) ListAlumni(ctx context.Context) ([]models.User, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	return s.Users.ListUsersByRole(ctx, models.RoleAlumni)
}
