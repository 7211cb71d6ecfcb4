package service

import (
	"context"
	"fmt"
	"regexp"

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

type IPersonaService interface {
	// ListPersonas returns the caller's profile-backed personas transformed
	// for the chat UI. Profiles without a display name are filtered out.
	ListPersonas(ctx context.Context, uid, email string) ([]dto.PersonaListItem, error)

	// Catalog returns the immutable built-in personas.
	Catalog() []dto.PersonaListItem

	// DeletePersona resolves identifier as store id, then display name, then
	// legacy numeric id, and deletes the first single match.
	DeletePersona(ctx context.Context, identifier string) (string, error)
}

type personaService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewPersonaService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IPersonaService {
	return &personaService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// builtinCatalog holds the fixed personas every user can chat with. One per
// category.
var builtinCatalog = []entity.Persona{
	entity.NewBuiltinPersona("Aria", "A friendly, well-rounded conversationalist happy to talk about anything.", "general"),
	entity.NewBuiltinPersona("Vogue Vera", "A fashion stylist with a sharp eye for trends, fits and wardrobe advice.", "fashion"),
	entity.NewBuiltinPersona("Maximilian", "A luxury concierge versed in fine watches, travel and haute living.", "luxury"),
	entity.NewBuiltinPersona("Chef Gio", "An Italian chef who lives for pasta, seasonal produce and hearty cooking.", "food"),
	entity.NewBuiltinPersona("Ada", "A pragmatic software engineer who explains technology without the jargon.", "technology"),
}

func personaToListItem(p entity.Persona) dto.PersonaListItem {
	return dto.PersonaListItem{
		PersonaType: p.Type,
		PersonaName: p.Title,
		PersonaBio:  p.Bio,
		Role:        p.Role,
		Id:          p.CategoryID,
		ProfileID:   p.ProfileID,
		DocID:       p.DocID,
	}
}

func (s *personaService) ListPersonas(ctx context.Context, uid, email string) ([]dto.PersonaListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profiles, err := uow.ProfileRepository().FindAll(ctx,
		specification.OwnedBy{UID: uid},
		specification.OwnedByEmail{Email: email},
		specification.HasPersonaName{},
	)
	if err != nil {
		return nil, apperror.PersistenceFault("failed to load personas", err)
	}

	personas := make([]dto.PersonaListItem, 0, len(profiles))
	for _, profile := range profiles {
		personas = append(personas, personaToListItem(entity.NewUserPersona(profile)))
	}
	return personas, nil
}

func (s *personaService) Catalog() []dto.PersonaListItem {
	items := make([]dto.PersonaListItem, len(builtinCatalog))
	for i, p := range builtinCatalog {
		items[i] = personaToListItem(p)
	}
	return items
}

var legacyNumericID = regexp.MustCompile(`^\d+$`)

func (s *personaService) DeletePersona(ctx context.Context, identifier string) (string, error) {
	if identifier == "" {
		return "", apperror.Validation("persona identifier is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProfileRepository()

	target, resolvedBy, err := s.resolveTarget(ctx, repo, identifier)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", apperror.NotFound(fmt.Sprintf("no persona matches %q", identifier))
	}

	rows, err := repo.Delete(ctx, target.Id)
	if err != nil {
		return "", apperror.PersistenceFault("failed to delete persona", err)
	}
	if rows != 1 {
		// Resolved to a document but the delete touched a different number
		// of rows. Report, do not retry.
		return "", apperror.PersistenceFault(
			fmt.Sprintf("delete affected %d rows for persona %q", rows, identifier), nil)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewPersonaDeleted(target.UID, target.DocID, resolvedBy)); err != nil {
			s.logger.Warn("PersonaService", "Failed to publish persona-deleted event", map[string]interface{}{"error": err})
		}
	}

	return target.DocID, nil
}

// resolveTarget tries each identifier scheme in priority order. A scheme
// only wins when it matches exactly one document; otherwise the next scheme
// gets a chance.
func (s *personaService) resolveTarget(ctx context.Context, repo profileFinder, identifier string) (*entity.Profile, string, error) {
	if docid.IsValid(identifier) {
		matches, err := repo.FindAll(ctx, specification.ByDocID{DocID: identifier})
		if err != nil {
			return nil, "", apperror.PersistenceFault("failed to resolve persona by id", err)
		}
		if len(matches) == 1 {
			return matches[0], "doc_id", nil
		}
	}

	matches, err := repo.FindAll(ctx, specification.ByPersonaName{Name: identifier})
	if err != nil {
		return nil, "", apperror.PersistenceFault("failed to resolve persona by name", err)
	}
	if len(matches) == 1 {
		return matches[0], "persona_name", nil
	}

	if legacyNumericID.MatchString(identifier) {
		matches, err := repo.FindAll(ctx, specification.ByProfileID{ProfileID: identifier})
		if err != nil {
			return nil, "", apperror.PersistenceFault("failed to resolve persona by legacy id", err)
		}
		if len(matches) == 1 {
			return matches[0], "profile_id", nil
		}
	}

	return nil, "", nil
}

// profileFinder is the slice of the profile repository the resolver needs.
type profileFinder interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Profile, error)
}
