package storage

import (
	"sync"
	"time"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

// MemoryStorage keeps all state for the process lifetime. One coarse lock
// covers both maps; the chat handlers and the scheduler loop contend on it
// only briefly per operation.
type MemoryStorage struct {
	mu       sync.RWMutex
	profiles map[int64]*models.UserProfile
	windows  map[int64]*models.WindowSet
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		profiles: make(map[int64]*models.UserProfile),
		windows:  make(map[int64]*models.WindowSet),
	}
}

// GetProfile returns a copy of the profile so callers never read fields that
// a concurrent mutation is writing.
func (s *MemoryStorage) GetProfile(chatID int64) (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, exists := s.profiles[chatID]; exists {
		return *p, true
	}
	return models.UserProfile{}, false
}

// CreateProfile creates or resets the profile for a chat, returning the fresh
// copy. Existing commute data is discarded; onboarding starts over.
func (s *MemoryStorage) CreateProfile(chatID int64) models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &models.UserProfile{
		ChatID:    chatID,
		State:     models.StateAwaitingOfficeTime,
		CreatedAt: time.Now(),
	}
	s.profiles[chatID] = p
	return *p
}

func (s *MemoryStorage) UpdateProfile(chatID int64, mutate func(*models.UserProfile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.profiles[chatID]
	if !exists {
		return ErrProfileNotFound
	}
	mutate(p)
	return nil
}

func (s *MemoryStorage) GetWindows(chatID int64) (models.WindowSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if w, exists := s.windows[chatID]; exists {
		return *w, true
	}
	return models.WindowSet{}, false
}

func (s *MemoryStorage) PutWindows(chatID int64, set models.WindowSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.windows[chatID] = &set
}

func (s *MemoryStorage) UpdateWindows(chatID int64, mutate func(*models.WindowSet)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.windows[chatID]
	if !exists {
		return ErrProfileNotFound
	}
	mutate(w)
	return nil
}

func (s *MemoryStorage) DeleteWindows(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, chatID)
}

// WindowEntries snapshots every chat that currently has check windows. The
// scheduler iterates the snapshot without holding the lock.
func (s *MemoryStorage) WindowEntries() []WindowEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]WindowEntry, 0, len(s.windows))
	for chatID, w := range s.windows {
		entries = append(entries, WindowEntry{ChatID: chatID, Windows: *w})
	}
	return entries
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
