package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/4ourCEo/Kitly/internal/apperror"
	"github.com/4ourCEo/Kitly/internal/client"
	"github.com/4ourCEo/Kitly/internal/dto"
	"github.com/4ourCEo/Kitly/internal/model"
	"github.com/4ourCEo/Kitly/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	// GoogleAuthorizeURL returns the provider redirect target for the
	// hosted OAuth sign-in flow.
	GoogleAuthorizeURL() string
	// CompleteGoogleSignIn exchanges the callback code, upserts the user
	// and issues a session token.
	CompleteGoogleSignIn(ctx context.Context, code string) (*dto.AuthResponse, error)
	// ValidateToken parses a session token and returns the user ID.
	ValidateToken(token string) (string, error)
}

type authServiceImpl struct {
	userRepo     repository.UserRepository
	googleClient client.GoogleClient
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	googleClient client.GoogleClient,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		googleClient: googleClient,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
	}
}

func (s *authServiceImpl) SignUp(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	if email == "" || password == "" {
		return nil, apperror.Newf(apperror.KindInvalidRequest, "email and password are required")
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Newf(apperror.KindInvalidRequest, "email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.New(apperror.KindStorage, "look up user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     "local",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.New(apperror.KindStorage, "create user", err)
	}

	return s.issueToken(user)
}

func (s *authServiceImpl) SignIn(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.KindUnauthorized, "invalid email or password")
		}
		return nil, apperror.New(apperror.KindStorage, "look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.Newf(apperror.KindUnauthorized, "invalid email or password")
	}

	return s.issueToken(user)
}

func (s *authServiceImpl) GoogleAuthorizeURL() string {
	return s.googleClient.AuthorizeURL(uuid.NewString())
}

func (s *authServiceImpl) CompleteGoogleSignIn(ctx context.Context, code string) (*dto.AuthResponse, error) {
	if code == "" {
		return nil, apperror.Newf(apperror.KindInvalidRequest, "missing authorization code")
	}

	token, err := s.googleClient.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperror.New(apperror.KindUpstream, "exchange authorization code", err)
	}

	info, err := s.googleClient.FetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, apperror.New(apperror.KindUpstream, "fetch user info", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, info.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			ID:       uuid.NewString(),
			Email:    info.Email,
			Provider: "google",
		}
	} else if err != nil {
		return nil, apperror.New(apperror.KindStorage, "look up user", err)
	} else {
		user.Provider = "google"
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, apperror.New(apperror.KindStorage, "upsert user", err)
	}

	return s.issueToken(user)
}

func (s *authServiceImpl) ValidateToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", apperror.New(apperror.KindUnauthorized, "invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperror.Newf(apperror.KindUnauthorized, "invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", apperror.Newf(apperror.KindUnauthorized, "token missing user_id")
	}

	return userID, nil
}

func (s *authServiceImpl) issueToken(user *model.User) (*dto.AuthResponse, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &dto.AuthResponse{
		Token:  token,
		UserID: user.ID,
		Email:  user.Email,
	}, nil
}
