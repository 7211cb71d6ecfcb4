package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"persona-chat-be/internal/apperror"
	"persona-chat-be/internal/config"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
	jwtSecret  string
	logger     logger.ILogger
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, log logger.ILogger) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
		jwtSecret:  cfg.App.JWTSecret,
		logger:     log,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", apperror.Validation("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, apperror.Validation("unsupported provider")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.UpstreamFault("code exchange failed", err)
	}

	googleUser, err := s.fetchGoogleUser(token.AccessToken)
	if err != nil {
		return nil, apperror.UpstreamFault("failed getting user info", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRepository()

	user, err := repo.FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, apperror.PersistenceFault("failed to look up user", err)
	}

	if user == nil {
		user = &entity.User{
			Id:          uuid.New(),
			UID:         googleUser.ID,
			Email:       googleUser.Email,
			DisplayName: googleUser.Name,
			Role:        entity.UserRoleUser,
		}
		if googleUser.Picture != "" {
			user.AvatarURL = &googleUser.Picture
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, apperror.PersistenceFault("failed to start transaction", err)
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			uow.Rollback()
			return nil, apperror.PersistenceFault("failed to create user", err)
		}
		if err := uow.UserRepository().CreateProvider(ctx, &entity.UserProvider{
			Id:             uuid.New(),
			UserId:         user.Id,
			ProviderName:   "google",
			ProviderUserId: googleUser.ID,
			AvatarURL:      googleUser.Picture,
		}); err != nil {
			uow.Rollback()
			return nil, apperror.PersistenceFault("failed to link provider", err)
		}
		if err := uow.Commit(); err != nil {
			return nil, apperror.PersistenceFault("failed to commit", err)
		}

		s.logger.Info("OAuthService", "New user created via Google", map[string]interface{}{"uid": user.UID})
	} else {
		// Make sure the provider link exists for returning users.
		existing, err := repo.FindProvider(ctx, "google", googleUser.ID)
		if err == nil && existing == nil {
			if err := repo.CreateProvider(ctx, &entity.UserProvider{
				Id:             uuid.New(),
				UserId:         user.Id,
				ProviderName:   "google",
				ProviderUserId: googleUser.ID,
				AvatarURL:      googleUser.Picture,
			}); err != nil {
				s.logger.Warn("OAuthService", "Failed to link provider", map[string]interface{}{"error": err})
			}
		}
	}

	signed, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: signed,
		User:  *userToResponse(user),
	}, nil
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (s *oauthService) fetchGoogleUser(accessToken string) (*googleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var user googleUserInfo
	if err := json.Unmarshal(content, &user); err != nil {
		return nil, err
	}
	if user.Email == "" {
		return nil, errors.New("userinfo response missing email")
	}
	return &user, nil
}

func (s *oauthService) issueToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.UID,
		"user_email": user.Email,
		"role":       user.Role,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := s.jwtSecret
	if secret == "" {
		secret = "default_secret"
	}
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", apperror.PersistenceFault("failed to sign token", err)
	}
	return signed, nil
}
