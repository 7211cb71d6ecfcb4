package service

import (
	"context"

	"persona-chat-be/internal/apperror"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/pkg/mailer"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/events"
	pktNats "persona-chat-be/pkg/nats"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUserByUID(ctx context.Context, uid string) (*dto.UserResponse, error)
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func userToResponse(u *entity.User) *dto.UserResponse {
	avatarURL := ""
	if u.AvatarURL != nil {
		avatarURL = *u.AvatarURL
	}
	return &dto.UserResponse{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		AvatarURL:   avatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

// CreateUser records a signed-up user. Repeated creates for the same uid are
// idempotent and return the existing record.
func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRepository()

	existing, err := repo.FindOne(ctx, specification.ByUID{UID: req.UID})
	if err != nil {
		return nil, apperror.PersistenceFault("failed to look up user", err)
	}
	if existing != nil {
		return userToResponse(existing), nil
	}

	user := &entity.User{
		Id:          uuid.New(),
		UID:         req.UID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        entity.UserRoleUser,
	}
	if req.AvatarURL != "" {
		user.AvatarURL = &req.AvatarURL
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.PersistenceFault("failed to hash password", err)
		}
		hashStr := string(hash)
		user.PasswordHash = &hashStr
	}

	if err := repo.Create(ctx, user); err != nil {
		return nil, apperror.PersistenceFault("failed to create user", err)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewUserCreated(user.UID, user.Email)); err != nil {
			s.logger.Warn("UserService", "Failed to publish user-created event", map[string]interface{}{"error": err})
		}
	}

	// Fire and forget: signup must not block on SMTP.
	if s.emailService != nil {
		go func(email, name string) {
			if err := s.emailService.SendWelcome(email, name); err != nil {
				s.logger.Warn("UserService", "Failed to send welcome email", map[string]interface{}{"error": err, "email": email})
			}
		}(user.Email, user.DisplayName)
	}

	return userToResponse(user), nil
}

func (s *userService) GetUserByUID(ctx context.Context, uid string) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUID{UID: uid})
	if err != nil {
		return nil, apperror.PersistenceFault("failed to look up user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return userToResponse(user), nil
}
