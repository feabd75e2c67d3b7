package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smarttech/storefront/internal/cart"
	"github.com/smarttech/storefront/pkg/kv"
	"github.com/smarttech/storefront/pkg/logger"
)

// JournalKey is where the in-progress checkout attempt is recorded.
const JournalKey = "smarttech_checkout_journal"

// Journal records one checkout attempt so a retry of the same cart and customer
// skips the lines whose orders already exist.
type Journal struct {
	AttemptID   string          `json:"attempt_id"`
	Fingerprint string          `json:"fingerprint"`
	Created     map[int64]int64 `json:"created"`
	StartedAt   time.Time       `json:"started_at"`
}

type journalStore struct {
	kv   kv.Store
	logg *logger.Logger
}

// load returns nil when no usable journal exists. A corrupt journal is discarded.
func (s *journalStore) load(ctx context.Context) (*Journal, error) {
	raw, err := s.kv.Get(ctx, JournalKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkout journal: %w", err)
	}
	var j Journal
	if err := json.Unmarshal([]byte(raw), &j); err != nil || j.AttemptID == "" {
		s.logg.Warn(ctx, "checkout.journal.corrupt")
		return nil, nil
	}
	if j.Created == nil {
		j.Created = map[int64]int64{}
	}
	return &j, nil
}

func (s *journalStore) save(ctx context.Context, j *Journal) error {
	raw, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("encode checkout journal: %w", err)
	}
	if err := s.kv.Set(ctx, JournalKey, string(raw)); err != nil {
		return fmt.Errorf("save checkout journal: %w", err)
	}
	return nil
}

func (s *journalStore) clear(ctx context.Context) error {
	return s.kv.Delete(ctx, JournalKey)
}

// fingerprint identifies a cart+customer pair. Any change in lines, quantities
// or email yields a new attempt.
func fingerprint(state cart.State, email string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", strings.ToLower(strings.TrimSpace(email)))
	for _, line := range state.Lines {
		fmt.Fprintf(h, "%d:%d\n", line.Product.ID, line.Quantity)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// IdempotencyKey is the per-line key sent with each order submission. It is
// stable across retries of the same attempt.
func IdempotencyKey(attemptID string, line cart.Line) string {
	return fmt.Sprintf("%s:%d:%d", attemptID, line.Product.ID, line.Quantity)
}
