package unitofwork

import (
	"context"

	"persona-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProfileRepository() contract.ProfileRepository
	ChatDocumentRepository() contract.ChatDocumentRepository
}
