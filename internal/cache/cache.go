// Package cache stores analysed profiles keyed by the hash of the source text
// so that resubmitting the same CV skips the model calls.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/spigell/skillmatch/internal/cv"
)

const keyPrefix = "cv:profile:"

type Store interface {
	Get(ctx context.Context, key string) (cv.CandidateProfile, bool, error)
	Set(ctx context.Context, key string, profile cv.CandidateProfile) error
}

// Key derives the cache key of a document from its trimmed text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Nop never hits.
type Nop struct{}

func (Nop) Get(context.Context, string) (cv.CandidateProfile, bool, error) {
	return cv.CandidateProfile{}, false, nil
}

func (Nop) Set(context.Context, string, cv.CandidateProfile) error { return nil }

// Memory is a process-local store without expiry.
type Memory struct {
	mu    sync.RWMutex
	items map[string]cv.CandidateProfile
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]cv.CandidateProfile)}
}

func (m *Memory) Get(_ context.Context, key string) (cv.CandidateProfile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.items[key]
	if !ok {
		return cv.CandidateProfile{}, false, nil
	}
	return p.Clone(), true, nil
}

func (m *Memory) Set(_ context.Context, key string, profile cv.CandidateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = profile.Clone()
	return nil
}
