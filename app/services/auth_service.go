package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/pkg/apperr"
	"github.com/priyamehta/aarohi/pkg/auth"
)

// AuthService handles registration, login, and profile management.
type AuthService struct {
	users UserStore
}

// NewAuthService wires the auth service to the user store.
func NewAuthService(u UserStore) *AuthService {
	return &AuthService{users: u}
}

// RegisterInput is the account creation payload.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput is the partial profile-update payload.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName" validate:"nullable,max=100"`
	LastName  *string `json:"lastName" validate:"nullable,max=100"`
	Password  *string `json:"password" validate:"nullable,min=8,max=128"`
}

// AuthResult is a user plus a signed token.
type AuthResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates an account. Username and email must both be free.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if existing, err := s.users.FindByEmail(ctx, in.Email); err != nil {
		return nil, apperr.Internal("checking email availability", err)
	} else if existing != nil {
		return nil, apperr.Conflict("an account with this email already exists")
	}
	if existing, err := s.users.FindByUsername(ctx, in.Username); err != nil {
		return nil, apperr.Internal("checking username availability", err)
	} else if existing != nil {
		return nil, apperr.Conflict("this username is taken")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hashing password", err)
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
		Role:      "user",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Insert(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Raced with a concurrent registration.
			return nil, apperr.Conflict("email or username already taken")
		}
		return nil, apperr.Internal("creating account", err)
	}

	token, err := auth.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, apperr.Internal("signing token", err)
	}
	return &AuthResult{User: *u, Token: token}, nil
}

// Login verifies credentials and issues a token, recording lastLogin.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Internal("looking up account", err)
	}
	if u == nil || !u.IsActive || !auth.CheckPassword(u.Password, in.Password) {
		return nil, apperr.Invalid("invalid email or password")
	}

	now := time.Now().UTC()
	u.LastLogin = &now
	u.UpdatedAt = now
	if err := s.users.Replace(ctx, u); err != nil {
		return nil, apperr.Internal("recording login", err)
	}

	token, err := auth.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, apperr.Internal("signing token", err)
	}
	return &AuthResult{User: *u, Token: token}, nil
}

// Me returns the account for the given id.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Invalid("user id is not valid")
	}
	u, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Internal("loading account", err)
	}
	if u == nil {
		return nil, apperr.NotFound("account not found")
	}
	return u, nil
}

// UpdateProfile applies a partial profile update.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, apperr.Internal("hashing password", err)
		}
		u.Password = hash
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.users.Replace(ctx, u); err != nil {
		return nil, apperr.Internal("saving profile", err)
	}
	return u, nil
}

// Promote grants the admin role to the account with the given email. Used by
// the seeder and ops tooling; there is no HTTP route for it.
func (s *AuthService) Promote(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return apperr.Internal("loading account", err)
	}
	if u == nil {
		return apperr.NotFound("account not found")
	}
	if u.Role == "admin" {
		return nil
	}
	u.Role = "admin"
	u.UpdatedAt = time.Now().UTC()
	if err := s.users.Replace(ctx, u); err != nil {
		return apperr.Internal("saving account", err)
	}
	return nil
}
