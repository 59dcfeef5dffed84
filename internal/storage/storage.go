package storage

import (
	"errors"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

// ErrProfileNotFound is returned when a mutation targets an unknown chat.
var ErrProfileNotFound = errors.New("profile not found")

// WindowEntry pairs a chat with its current window set, as seen by the
// scheduler scan.
type WindowEntry struct {
	ChatID  int64
	Windows models.WindowSet
}

// Storage holds user profiles and their commute check windows. Profiles are
// mutated both by chat handlers and by the scheduler loop, so every mutation
// goes through an Update method applied under the store's lock.
type Storage interface {
	GetProfile(chatID int64) (models.UserProfile, bool)
	CreateProfile(chatID int64) models.UserProfile
	UpdateProfile(chatID int64, mutate func(*models.UserProfile)) error

	GetWindows(chatID int64) (models.WindowSet, bool)
	PutWindows(chatID int64, set models.WindowSet)
	UpdateWindows(chatID int64, mutate func(*models.WindowSet)) error
	DeleteWindows(chatID int64)
	WindowEntries() []WindowEntry

	Close() error
}
