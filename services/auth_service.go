package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role"`
	Room     string      `json:"room"`
	Contact  string      `json:"contact"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is what a successful register or login hands back.
type Session struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

type AuthService struct {
	store   store.Store
	tokens  *utils.TokenManager
	revoker utils.Revoker
	hub     *hub.Hub
}

// Register creates the account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	u, err := s.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		return nil, invalid("role must be Admin or User")
	}
	if in.Role == models.RoleUser && strings.TrimSpace(in.Room) == "" {
		return nil, invalid("room is required for students")
	}

	if _, err := s.store.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hash),
		Role:      in.Role,
		Contact:   in.Contact,
		IsStudent: in.Role == models.RoleUser,
		JoinDate:  now(),
		Status:    models.UserActive,
	}
	if in.Role == models.RoleUser {
		u.Room = strings.TrimSpace(in.Room)
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		// Two registrations racing past the lookup meet the unique index.
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.hub.Publish(u.Name, "Joined the hostel", hub.KindUser)
	return u, nil
}

// Login fails with ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	u, err := s.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, User: u.Profile()}, nil
}

// Authenticate turns a bearer token into the calling Actor.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Actor, error) {
	if token == "" {
		return Actor{}, ErrUnauthenticated
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return Actor{}, ErrUnauthenticated
	}
	revoked, err := s.revoker.IsRevoked(ctx, token)
	if err != nil {
		return Actor{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Actor{}, ErrUnauthenticated
	}
	return Actor{UserID: claims.UserID, Role: models.Role(claims.Role)}, nil
}

// Logout revokes token until it expires.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return ErrUnauthenticated
	}
	return s.revoker.Revoke(ctx, token, claims.ExpiresAt.Time)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	u, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := u.Profile()
	return &p, nil
}
