package models

import "time"

// ChatSession groups the assistant exchanges of one visitor.
type ChatSession struct {
	ID        int64         `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID string        `gorm:"column:session_id;not null;uniqueIndex:idx_chat_sessions_session_id"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	Messages  []ChatMessage `gorm:"foreignKey:ChatSessionID;constraint:OnDelete:CASCADE"`
}

// ChatMessage is one visitor message and the assistant's reply.
type ChatMessage struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ChatSessionID int64     `gorm:"column:chat_session_id;not null;index:idx_chat_messages_session"`
	Message       string    `gorm:"column:message;not null"`
	Response      *string   `gorm:"column:response"`
	Language      string    `gorm:"column:language;not null;default:'en'"`
	Timestamp     time.Time `gorm:"column:timestamp;not null"`
}
