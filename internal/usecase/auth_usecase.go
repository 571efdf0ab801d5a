package usecase

import (
	"context"
	"log"
	"time"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/pkg/errors"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
}

type AuthResult struct {
	User         *entity.User
	Token        string
	RefreshToken string
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existingUser, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existingUser != nil {
		return nil, errors.BadRequest("Email already in use", nil)
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uid,
		Email:        input.Email,
		Username:     input.Username,
		Role:         "user",
		Status:       "active",
		OnlineStatus: "offline",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Keep auth and profile in sync if the profile write fails
		if delErr := uc.firebaseAuth.DeleteUser(ctx, uid); delErr != nil {
			log.Printf("Register: Failed to clean up auth user %s after profile create failure: %v", uid, delErr)
		}
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, refreshToken, err := uc.firebaseAuth.SignInWithEmailPassword(input.Email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, refreshToken, err := uc.firebaseAuth.SignInWithEmailPassword(email, password)
	if err != nil {
		log.Printf("Login failed for %s: %v", email, err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.firebaseAuth.VerifyToken(ctx, token)
	if err != nil {
		log.Printf("Token verification failed: %v", err)
		return nil, errors.Internal("Failed to verify token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		log.Printf("Failed to get user by ID: %v", err)
		return nil, errors.NotFound("User", err)
	}

	if user.Status == "banned" {
		return nil, errors.Forbidden("Account is banned", nil)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	token, newRefreshToken, err := uc.firebaseAuth.RefreshIdToken(refreshToken)
	if err != nil {
		return "", "", errors.Unauthorized("Invalid refresh token", err)
	}

	return token, newRefreshToken, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return user, nil
}
