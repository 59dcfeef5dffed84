package storage

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

func TestMemoryStorage_CreateResetsProfile(t *testing.T) {
	s := NewMemoryStorage()

	s.CreateProfile(1)
	err := s.UpdateProfile(1, func(p *models.UserProfile) {
		p.State = models.StateComplete
		p.OfficeDeparture = models.DayTime{Hour: 9}
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	fresh := s.CreateProfile(1)
	if fresh.State != models.StateAwaitingOfficeTime {
		t.Fatalf("reset profile state = %v, want %v", fresh.State, models.StateAwaitingOfficeTime)
	}
	if fresh.OfficeDeparture != (models.DayTime{}) {
		t.Fatalf("reset profile kept departure time %v", fresh.OfficeDeparture)
	}
}

func TestMemoryStorage_UpdateMissingProfile(t *testing.T) {
	s := NewMemoryStorage()

	err := s.UpdateProfile(404, func(p *models.UserProfile) {})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("UpdateProfile = %v, want ErrProfileNotFound", err)
	}
	if err := s.UpdateWindows(404, func(w *models.WindowSet) {}); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("UpdateWindows = %v, want ErrProfileNotFound", err)
	}
}

func TestMemoryStorage_GetProfileReturnsCopy(t *testing.T) {
	s := NewMemoryStorage()
	s.CreateProfile(1)

	copy1, _ := s.GetProfile(1)
	copy1.State = models.StateComplete

	stored, _ := s.GetProfile(1)
	if stored.State != models.StateAwaitingOfficeTime {
		t.Fatalf("mutating a returned profile changed the store: %v", stored.State)
	}
}

func TestMemoryStorage_Windows(t *testing.T) {
	s := NewMemoryStorage()
	now := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

	if _, ok := s.GetWindows(1); ok {
		t.Fatal("GetWindows returned data for unknown chat")
	}

	set := models.WindowSet{
		ToOffice: models.CheckWindow{Start: now, End: now.Add(time.Hour)},
	}
	s.PutWindows(1, set)

	got, ok := s.GetWindows(1)
	if !ok || !got.ToOffice.Start.Equal(now) {
		t.Fatalf("GetWindows = (%v, %v)", got, ok)
	}

	err := s.UpdateWindows(1, func(w *models.WindowSet) {
		w.ToOffice.Start = now.Add(2 * time.Minute)
	})
	if err != nil {
		t.Fatalf("UpdateWindows failed: %v", err)
	}
	got, _ = s.GetWindows(1)
	if !got.ToOffice.Start.Equal(now.Add(2 * time.Minute)) {
		t.Fatalf("update not applied: %v", got.ToOffice.Start)
	}

	entries := s.WindowEntries()
	if len(entries) != 1 || entries[0].ChatID != 1 {
		t.Fatalf("WindowEntries = %v", entries)
	}

	s.DeleteWindows(1)
	if entries := s.WindowEntries(); len(entries) != 0 {
		t.Fatalf("entries survived delete: %v", entries)
	}
}

func TestMemoryStorage_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStorage()
	s.CreateProfile(1)
	s.PutWindows(1, models.WindowSet{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.UpdateProfile(1, func(p *models.UserProfile) { p.State = models.StateComplete })
				_, _ = s.GetProfile(1)
				_ = s.UpdateWindows(1, func(w *models.WindowSet) { w.ToOffice.Start = time.Now() })
				_ = s.WindowEntries()
			}
		}()
	}
	wg.Wait()
}
