// Package cache stores job description digests so repeated runs against the
// same posting skip the normalization call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// KeyPrefix namespaces digest keys in shared stores.
const KeyPrefix = "resume-forge:jd:"

// DigestCache maps a job description key to its digest.
type DigestCache interface {
	Get(ctx context.Context, key string) (digest string, found bool, err error)
	Set(ctx context.Context, key, digest string) (err error)
}

// Key derives the cache key for raw job description text.
func Key(raw string) (key string) {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	key = KeyPrefix + hex.EncodeToString(sum[:])
	return key
}

// Memory is a process-local DigestCache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory creates an empty Memory cache.
func NewMemory() (m *Memory) {
	m = &Memory{entries: make(map[string]string)}
	return m
}

// Get implements DigestCache.
func (m *Memory) Get(_ context.Context, key string) (digest string, found bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	digest, found = m.entries[key]
	return digest, found, err
}

// Set implements DigestCache.
func (m *Memory) Set(_ context.Context, key, digest string) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = digest
	return err
}

// Len returns the number of stored digests.
func (m *Memory) Len() (n int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n = len(m.entries)
	return n
}
