// Package kv keeps HTTP rate limiter state in a Starskey store so blocks survive restarts.
package kv

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/starskey-io/starskey"
)

// DefaultPenalty is how long a client stays blocked after draining its bucket.
const DefaultPenalty = time.Second

// bucket is the persisted state of one client.
type bucket struct {
	Tokens       float64   `json:"tokens"`
	LastSeen     time.Time `json:"last_seen"`
	BlockedUntil time.Time `json:"blocked_until,omitempty"`
}

// RateLimiterStore is a token bucket per identifier. It satisfies echo's
// middleware.RateLimiterStore.
type RateLimiterStore struct {
	db        *starskey.Starskey
	rate      float64
	burst     int
	expiresIn time.Duration
	penalty   time.Duration
	now       func() time.Time
}

// NewRateLimiterStore opens the store in dir. rate is tokens per second; a client
// unseen for expiresIn starts again with a full bucket.
func NewRateLimiterStore(dir string, rate float64, burst int, expiresIn time.Duration) (*RateLimiterStore, error) {
	if rate <= 0 || burst <= 0 {
		return nil, fmt.Errorf("invalid rate limit: rate %v burst %d", rate, burst)
	}

	db, err := starskey.Open(&starskey.Config{
		Permission:        0755,
		Directory:         dir,
		FlushThreshold:    16 * 1024 * 1024,
		MaxLevel:          3,
		SizeFactor:        10,
		BloomFilter:       true,
		SuRF:              false,
		Logging:           false,
		Compression:       true,
		CompressionOption: starskey.SnappyCompression,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open rate limiter store: %w", err)
	}

	log.Info("Rate limiter state persisted", "dir", dir, "rate", rate, "burst", burst, "expires_in", expiresIn)
	return &RateLimiterStore{
		db:        db,
		rate:      rate,
		burst:     burst,
		expiresIn: expiresIn,
		penalty:   DefaultPenalty,
		now:       time.Now,
	}, nil
}

// Allow consumes one token for identifier.
func (s *RateLimiterStore) Allow(identifier string) (bool, error) {
	var allowed bool

	err := s.db.Update(func(txn *starskey.Txn) error {
		now := s.now()
		key := []byte(identifier)

		b := bucket{Tokens: float64(s.burst), LastSeen: now}
		if value, err := txn.Get(key); err == nil && value != nil {
			if err := json.Unmarshal(value, &b); err != nil {
				log.Debug("Discarding corrupt rate limit state", "id", identifier, "error", err)
				b = bucket{Tokens: float64(s.burst), LastSeen: now}
			}
		}

		if now.Before(b.BlockedUntil) {
			allowed = false
			return nil
		}
		if s.expiresIn > 0 && now.Sub(b.LastSeen) > s.expiresIn {
			b = bucket{Tokens: float64(s.burst), LastSeen: now}
		}

		elapsed := now.Sub(b.LastSeen).Seconds()
		if elapsed > 0 {
			b.Tokens = math.Min(float64(s.burst), b.Tokens+elapsed*s.rate)
		}
		b.LastSeen = now

		if b.Tokens >= 1 {
			b.Tokens--
			allowed = true
		} else {
			b.BlockedUntil = now.Add(s.penalty)
			allowed = false
			log.Info("Client rate limited", "id", identifier, "until", b.BlockedUntil)
		}

		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to encode rate limit state: %w", err)
		}
		txn.Put(key, data)
		return nil
	})
	if err != nil {
		return false, err
	}
	return allowed, nil
}

// Reset forgets identifier, lifting any block.
func (s *RateLimiterStore) Reset(identifier string) error {
	if err := s.db.Delete([]byte(identifier)); err != nil {
		return fmt.Errorf("failed to reset rate limit for %s: %w", identifier, err)
	}
	return nil
}

// Close closes the underlying store.
func (s *RateLimiterStore) Close() error {
	return s.db.Close()
}
