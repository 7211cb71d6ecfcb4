package service

import (
	"context"
	"strconv"
	"time"

	"persona-chat-be/internal/apperror"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/pkg/docid"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/events"
	pktNats "persona-chat-be/pkg/nats"
)

type IProfileService interface {
	CreateProfile(ctx context.Context, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error)
	CheckProfileExists(ctx context.Context, uid string) (bool, error)
	ListProfiles(ctx context.Context, uid string) ([]*dto.ProfileResponse, error)
}

type profileService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewProfileService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IProfileService {
	return &profileService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func profileToResponse(p *entity.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		DocID:             p.DocID,
		ProfileID:         p.ProfileID,
		UID:               p.UID,
		Email:             p.Email,
		PersonaType:       p.PersonaType,
		PersonaName:       p.PersonaName,
		PersonaRole:       p.PersonaRole,
		PersonaTraits:     p.PersonaTraits,
		PersonaBio:        p.PersonaBio,
		PersonaPronouns:   p.PersonaPronouns,
		AgeRange:          p.AgeRange,
		GenderIdentity:    p.GenderIdentity,
		Location:          p.Location,
		IncomeLevel:       p.IncomeLevel,
		JobTitle:          p.JobTitle,
		Industry:          p.Industry,
		CompanyBio:        p.CompanyBio,
		CompanyURL:        p.CompanyURL,
		Tone:              p.Tone,
		PreferredLanguage: p.PreferredLanguage,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// CreateProfile always inserts a new profile document. Every document gets a
// store-assigned 24-hex id plus the legacy time-based id older clients key on.
func (s *profileService) CreateProfile(ctx context.Context, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	profile := &entity.Profile{
		DocID:             docid.New(),
		ProfileID:         strconv.FormatInt(time.Now().UnixMilli(), 10),
		UID:               req.UID,
		Email:             req.Email,
		PersonaType:       entity.NormalizeType(req.PersonaType),
		PersonaName:       req.PersonaName,
		PersonaRole:       req.PersonaRole,
		PersonaTraits:     req.PersonaTraits,
		PersonaBio:        req.PersonaBio,
		PersonaPronouns:   req.PersonaPronouns,
		AgeRange:          req.AgeRange,
		GenderIdentity:    req.GenderIdentity,
		Location:          req.Location,
		IncomeLevel:       req.IncomeLevel,
		JobTitle:          req.JobTitle,
		Industry:          req.Industry,
		CompanyBio:        req.CompanyBio,
		CompanyURL:        req.CompanyURL,
		Tone:              req.Tone,
		PreferredLanguage: req.PreferredLanguage,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProfileRepository().Create(ctx, profile); err != nil {
		return nil, apperror.PersistenceFault("failed to create profile", err)
	}

	if s.eventPublisher != nil {
		evt := events.NewPersonaCreated(profile.UID, profile.DocID, profile.PersonaName, profile.PersonaType)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ProfileService", "Failed to publish persona-created event", map[string]interface{}{"error": err})
		}
	}

	return profileToResponse(profile), nil
}

func (s *profileService) CheckProfileExists(ctx context.Context, uid string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.ProfileRepository().Count(ctx, specification.OwnedBy{UID: uid})
	if err != nil {
		return false, apperror.PersistenceFault("failed to check profile existence", err)
	}
	return count > 0, nil
}

func (s *profileService) ListProfiles(ctx context.Context, uid string) ([]*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profiles, err := uow.ProfileRepository().FindAll(ctx,
		specification.OwnedBy{UID: uid},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.PersistenceFault("failed to load profiles", err)
	}

	out := make([]*dto.ProfileResponse, len(profiles))
	for i, p := range profiles {
		out[i] = profileToResponse(p)
	}
	return out, nil
}
