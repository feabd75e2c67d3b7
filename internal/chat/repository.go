package chat

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/smarttech/storefront/pkg/db/models"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
)

// Repository persists chat sessions and their exchanges.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSession returns the session row for sessionID, creating it when missing.
func (r *Repository) EnsureSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	row := models.ChatSession{SessionID: sessionID}
	err := r.db.WithContext(ctx).
		Where(models.ChatSession{SessionID: sessionID}).
		FirstOrCreate(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// History returns the exchanges of a session, oldest first.
func (r *Repository) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	var session models.ChatSession
	err := r.db.WithContext(ctx).First(&session, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Chat session not found")
	}
	if err != nil {
		return nil, err
	}
	var rows []models.ChatMessage
	err = r.db.WithContext(ctx).
		Where("chat_session_id = ?", session.ID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
