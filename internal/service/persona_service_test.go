package service

import (
	"context"
	"errors"
	"testing"

	"persona-chat-be/internal/apperror"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/contract"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProfileRepository resolves FindAll against canned per-specification
// results and records deletions.
type fakeProfileRepository struct {
	contract.ProfileRepository

	byDocID   []*entity.Profile
	byName    []*entity.Profile
	byLegacy  []*entity.Profile
	all       []*entity.Profile
	findErr   error
	deleteErr error

	deletedIds  []uuid.UUID
	deletedRows int64
}

func (f *fakeProfileRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, spec := range specs {
		switch spec.(type) {
		case specification.ByDocID:
			return f.byDocID, nil
		case specification.ByPersonaName:
			return f.byName, nil
		case specification.ByProfileID:
			return f.byLegacy, nil
		}
	}
	return f.all, nil
}

func (f *fakeProfileRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deletedIds = append(f.deletedIds, id)
	return f.deletedRows, nil
}

type fakeUnitOfWork struct {
	unitofwork.UnitOfWork
	profiles contract.ProfileRepository
}

func (f *fakeUnitOfWork) ProfileRepository() contract.ProfileRepository { return f.profiles }

type fakeUowFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func newPersonaFixture(repo contract.ProfileRepository) IPersonaService {
	factory := &fakeUowFactory{uow: &fakeUnitOfWork{profiles: repo}}
	return NewPersonaService(factory, nil, nopLogger{})
}

func profileWithIds(name string) *entity.Profile {
	return &entity.Profile{
		Id:          uuid.New(),
		DocID:       "507f1f77bcf86cd799439011",
		ProfileID:   "1700000000000",
		UID:         "u1",
		Email:       "u1@example.com",
		PersonaName: name,
		PersonaType: "food",
	}
}

func TestCatalogShape(t *testing.T) {
	svc := newPersonaFixture(&fakeProfileRepository{})

	items := svc.Catalog()
	require.Len(t, items, 5)

	// One persona per category with the fixed numeric ids.
	ids := make(map[int]string)
	for _, item := range items {
		ids[item.Id] = item.PersonaType
		assert.Equal(t, "system", item.Role)
		assert.NotEmpty(t, item.PersonaName)
		assert.NotEmpty(t, item.PersonaBio)
	}
	assert.Equal(t, map[int]string{
		1: "general", 2: "fashion", 3: "luxury", 4: "food", 5: "technology",
	}, ids)
}

func TestListPersonasTransformsProfiles(t *testing.T) {
	repo := &fakeProfileRepository{all: []*entity.Profile{profileWithIds("Chef Gio")}}
	svc := newPersonaFixture(repo)

	items, err := svc.ListPersonas(context.Background(), "u1", "u1@example.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Chef Gio", items[0].PersonaName)
	assert.Equal(t, "food", items[0].PersonaType)
	assert.Equal(t, 4, items[0].Id)
	assert.Equal(t, "507f1f77bcf86cd799439011", items[0].DocID)
	assert.Equal(t, "1700000000000", items[0].ProfileID)
}

func TestDeletePersonaByDocId(t *testing.T) {
	target := profileWithIds("Chef Gio")
	repo := &fakeProfileRepository{
		byDocID:     []*entity.Profile{target},
		deletedRows: 1,
	}
	svc := newPersonaFixture(repo)

	deletedId, err := svc.DeletePersona(context.Background(), "507f1f77bcf86cd799439011")
	require.NoError(t, err)
	assert.Equal(t, target.DocID, deletedId)
	require.Len(t, repo.deletedIds, 1)
	assert.Equal(t, target.Id, repo.deletedIds[0])
}

func TestDeletePersonaDocIdWinsOverSameNamedProfile(t *testing.T) {
	// A second profile whose display name IS the 24-hex identifier must not
	// shadow the document-id match.
	byID := profileWithIds("Chef Gio")
	decoy := profileWithIds("507f1f77bcf86cd799439011")
	decoy.DocID = "6512bd43d9caa6e02c990b0a"
	repo := &fakeProfileRepository{
		byDocID:     []*entity.Profile{byID},
		byName:      []*entity.Profile{decoy},
		deletedRows: 1,
	}
	svc := newPersonaFixture(repo)

	deletedId, err := svc.DeletePersona(context.Background(), "507f1f77bcf86cd799439011")
	require.NoError(t, err)
	assert.Equal(t, byID.DocID, deletedId)
	require.Len(t, repo.deletedIds, 1)
	assert.Equal(t, byID.Id, repo.deletedIds[0])
}

func TestDeletePersonaFallsBackToName(t *testing.T) {
	target := profileWithIds("Chef Gio")
	repo := &fakeProfileRepository{
		byName:      []*entity.Profile{target},
		deletedRows: 1,
	}
	svc := newPersonaFixture(repo)

	deletedId, err := svc.DeletePersona(context.Background(), "Chef Gio")
	require.NoError(t, err)
	assert.Equal(t, target.DocID, deletedId)
}

func TestDeletePersonaAmbiguousNameFallsThrough(t *testing.T) {
	// Two profiles with the same name: the name scheme does not win and a
	// non-numeric identifier has no further scheme to try.
	repo := &fakeProfileRepository{
		byName: []*entity.Profile{profileWithIds("Chef Gio"), profileWithIds("Chef Gio")},
	}
	svc := newPersonaFixture(repo)

	_, err := svc.DeletePersona(context.Background(), "Chef Gio")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Empty(t, repo.deletedIds)
}

func TestDeletePersonaByLegacyNumericId(t *testing.T) {
	target := profileWithIds("Chef Gio")
	repo := &fakeProfileRepository{
		byLegacy:    []*entity.Profile{target},
		deletedRows: 1,
	}
	svc := newPersonaFixture(repo)

	deletedId, err := svc.DeletePersona(context.Background(), "1700000000000")
	require.NoError(t, err)
	assert.Equal(t, target.DocID, deletedId)
}

func TestDeletePersonaNotFound(t *testing.T) {
	svc := newPersonaFixture(&fakeProfileRepository{})

	_, err := svc.DeletePersona(context.Background(), "507f1f77bcf86cd799439011")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeletePersonaEmptyIdentifier(t *testing.T) {
	svc := newPersonaFixture(&fakeProfileRepository{})

	_, err := svc.DeletePersona(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestDeletePersonaWrongRowCount(t *testing.T) {
	repo := &fakeProfileRepository{
		byDocID:     []*entity.Profile{profileWithIds("Chef Gio")},
		deletedRows: 0,
	}
	svc := newPersonaFixture(repo)

	_, err := svc.DeletePersona(context.Background(), "507f1f77bcf86cd799439011")
	require.Error(t, err)
	assert.Equal(t, apperror.KindPersistenceFault, apperror.KindOf(err))
}

func TestDeletePersonaRepositoryError(t *testing.T) {
	repo := &fakeProfileRepository{findErr: errors.New("db down")}
	svc := newPersonaFixture(repo)

	_, err := svc.DeletePersona(context.Background(), "Chef Gio")
	require.Error(t, err)
	assert.Equal(t, apperror.KindPersistenceFault, apperror.KindOf(err))
}
