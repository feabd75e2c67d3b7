package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smarttech/storefront/internal/products"
	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/db/models"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/validate"
)

const defaultLanguage = "en"

// Service answers assistant messages and keeps the per-session history.
type Service interface {
	Send(ctx context.Context, in storefront.ChatMessageCreate) (storefront.ChatMessageResponse, error)
	History(ctx context.Context, sessionID string) ([]storefront.ChatMessage, error)
}

type repository interface {
	EnsureSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	AddMessage(ctx context.Context, msg *models.ChatMessage) error
	History(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}

type service struct {
	repo  repository
	logg  *logger.Logger
	now   func() time.Time
	newID func() string
	reply func(string) string
}

func NewService(repo repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("chat repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg, now: time.Now, newID: uuid.NewString, reply: Reply}, nil
}

// Send starts a new session when none is supplied.
func (s *service) Send(ctx context.Context, in storefront.ChatMessageCreate) (storefront.ChatMessageResponse, error) {
	in.Message = strings.TrimSpace(in.Message)
	if err := validate.Struct(in); err != nil {
		return storefront.ChatMessageResponse{}, err
	}
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = s.newID()
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = defaultLanguage
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)

	session, err := s.repo.EnsureSession(ctx, sessionID)
	if err != nil {
		return storefront.ChatMessageResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open chat session")
	}
	answer := s.reply(in.Message)
	msg := &models.ChatMessage{
		ChatSessionID: session.ID,
		Message:       in.Message,
		Response:      &answer,
		Language:      language,
		Timestamp:     s.now().UTC(),
	}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return storefront.ChatMessageResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store chat message")
	}
	s.logg.Debug(ctx, "chat.message.answered")
	return storefront.ChatMessageResponse{Response: answer, SessionID: sessionID}, nil
}

func (s *service) History(ctx context.Context, sessionID string) ([]storefront.ChatMessage, error) {
	rows, err := s.repo.History(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load chat history")
	}
	out := make([]storefront.ChatMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, storefront.ChatMessage{
			ID:        row.ID,
			Message:   row.Message,
			Response:  row.Response,
			Language:  row.Language,
			Timestamp: products.FormatTime(row.Timestamp),
		})
	}
	return out, nil
}
