package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"training-service/internal/apperr"
	"training-service/internal/auth"
	"training-service/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindTrainee(ctx context.Context, id string) (*models.User, error)
}

type UserService struct {
	Users  UserStore
	Tokens *auth.Tokens
	now    nowFunc
}

func NewUserService(users UserStore, tokens *auth.Tokens) *UserService {
	return &UserService{Users: users, Tokens: tokens, now: defaultNow}
}

type RegisterInput struct {
	Email      string      `json:"email" binding:"required,email"`
	FirstName  string      `json:"firstName" binding:"required"`
	LastName   string      `json:"lastName" binding:"required"`
	Role       models.Role `json:"role" binding:"required"`
	Department string      `json:"department"`
	Password   string      `json:"password" binding:"required,min=8"`
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if !input.Role.Valid() {
		return nil, apperr.InvalidState("role must be Trainer or Trainee")
	}

	if _, err := s.Users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("a user with this email already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.Internal("failed to check existing user", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:      input.Email,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Role:       input.Role,
		Department: input.Department,
		Password:   hash,
		CreatedAt:  s.now(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}
	return user, nil
}

// Login verifies the credentials and issues an access/refresh token pair.
// The same Forbidden error covers unknown email and wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Forbidden("invalid email or password")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperr.Forbidden("invalid email or password")
	}

	pair, err := s.Tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal("failed to issue tokens", err)
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.Tokens.Verify(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, apperr.Forbidden("invalid refresh token")
	}

	user, err := s.Users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	pair, err := s.Tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal("failed to issue tokens", err)
	}
	return pair, nil
}

func (s *UserService) Me(ctx context.Context, p models.Principal) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}
	return user, nil
}
