package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smarttech/storefront/pkg/db/models"
)

// Gorm stores entries in the kv_entries table.
type Gorm struct {
	db     *gorm.DB
	closer func() error
}

// NewGorm wraps an open connection. closer may be nil when the caller owns the connection.
func NewGorm(conn *gorm.DB, closer func() error) (*Gorm, error) {
	if conn == nil {
		return nil, errors.New("kv gorm connection is required")
	}
	return &Gorm{db: conn, closer: closer}, nil
}

func (g *Gorm) Get(ctx context.Context, key string) (string, error) {
	var entry models.KVEntry
	err := g.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kv get %s: %w", key, err)
	}
	return entry.Value, nil
}

func (g *Gorm) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (g *Gorm) Delete(ctx context.Context, key string) error {
	if err := g.db.WithContext(ctx).Where("key = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

func (g *Gorm) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}
