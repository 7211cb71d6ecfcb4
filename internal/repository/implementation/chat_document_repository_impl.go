package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/mapper"
	"persona-chat-be/internal/model"
	"persona-chat-be/internal/repository/contract"
	"persona-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatDocumentRepository(db *gorm.DB) contract.ChatDocumentRepository {
	return &ChatDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// AppendMessage runs the merge-or-create inside one transaction with a row
// lock on the matched document. Two concurrent first appends for the same
// (uid, persona) both miss the lookup; the unique index rejects the second
// insert and one retry folds it into the surviving document.
func (r *ChatDocumentRepositoryImpl) AppendMessage(ctx context.Context, uid, userEmail string, persona entity.Persona, message entity.Message) (*entity.ChatDocument, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		doc, err := r.appendOnce(ctx, uid, userEmail, persona, message)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !isUniqueViolation(err) {
			break
		}
	}
	return nil, lastErr
}

func (r *ChatDocumentRepositoryImpl) appendOnce(ctx context.Context, uid, userEmail string, persona entity.Persona, message entity.Message) (*entity.ChatDocument, error) {
	var out *entity.ChatDocument

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.ChatDocument
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("uid = ? AND persona_title = ?", uid, persona.Title).
			First(&m).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			messagesJSON, marshalErr := json.Marshal([]entity.Message{message})
			if marshalErr != nil {
				return marshalErr
			}
			personaJSON, marshalErr := json.Marshal(persona)
			if marshalErr != nil {
				return marshalErr
			}
			m = model.ChatDocument{
				Id:           uuid.New(),
				UID:          uid,
				UserEmail:    userEmail,
				PersonaTitle: persona.Title,
				Persona:      personaJSON,
				Messages:     messagesJSON,
			}
			if createErr := tx.Create(&m).Error; createErr != nil {
				return createErr
			}
		} else if err != nil {
			return err
		} else {
			var messages []entity.Message
			if len(m.Messages) > 0 {
				if unmarshalErr := json.Unmarshal(m.Messages, &messages); unmarshalErr != nil {
					return unmarshalErr
				}
			}
			messages = append(messages, message)
			messagesJSON, marshalErr := json.Marshal(messages)
			if marshalErr != nil {
				return marshalErr
			}
			updates := map[string]interface{}{
				"messages":   messagesJSON,
				"updated_at": time.Now(),
			}
			if updateErr := tx.Model(&m).Updates(updates).Error; updateErr != nil {
				return updateErr
			}
			m.Messages = messagesJSON
		}

		entityDoc, mapErr := r.mapper.ToEntity(&m)
		if mapErr != nil {
			return mapErr
		}
		out = entityDoc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}

func (r *ChatDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatDocument, error) {
	var m model.ChatDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *ChatDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatDocument, error) {
	var models []*model.ChatDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatDocument, 0, len(models))
	for _, m := range models {
		e, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func (r *ChatDocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatDocument{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
