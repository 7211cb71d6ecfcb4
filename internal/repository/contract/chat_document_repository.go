package contract

import (
	"context"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/specification"
)

type ChatDocumentRepository interface {
	// AppendMessage merges message into the existing chat document for
	// (uid, persona title), or creates the document with a singleton message
	// array. At most one document per pair survives concurrent first appends.
	AppendMessage(ctx context.Context, uid, userEmail string, persona entity.Persona, message entity.Message) (*entity.ChatDocument, error)

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
