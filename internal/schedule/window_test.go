package schedule

import (
	"testing"
	"time"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

func TestComputeWindow_BeforeDeparture(t *testing.T) {
	// 09:00 departure seen at 07:00 → window [08:30, 09:30] same day
	now := time.Date(2024, time.January, 1, 7, 0, 0, 0, time.UTC)
	w := ComputeWindow(models.DayTime{Hour: 9}, now, now, 30*time.Minute, 30*time.Minute)

	wantStart := time.Date(2024, time.January, 1, 8, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) || !w.End.Equal(wantEnd) {
		t.Fatalf("got [%v, %v], want [%v, %v]", w.Start, w.End, wantStart, wantEnd)
	}
}

func TestComputeWindow_RollsToNextDay(t *testing.T) {
	// 18:00 home departure seen at 19:00 → today's window fully elapsed,
	// expect [17:00, 18:30] tomorrow
	now := time.Date(2024, time.January, 1, 19, 0, 0, 0, time.UTC)
	w := ComputeWindow(models.DayTime{Hour: 18}, now, now, 60*time.Minute, 30*time.Minute)

	wantStart := time.Date(2024, time.January, 2, 17, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.January, 2, 18, 30, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) || !w.End.Equal(wantEnd) {
		t.Fatalf("got [%v, %v], want [%v, %v]", w.Start, w.End, wantStart, wantEnd)
	}
}

func TestComputeWindow_WidthAndOrder(t *testing.T) {
	tests := []struct {
		name          string
		departure     models.DayTime
		nowHour       int
		before, after time.Duration
	}{
		{"morning before window", models.DayTime{Hour: 9}, 6, 30 * time.Minute, 30 * time.Minute},
		{"evening after window", models.DayTime{Hour: 18}, 23, 60 * time.Minute, 30 * time.Minute},
		{"departure equals now", models.DayTime{Hour: 12}, 12, 30 * time.Minute, 30 * time.Minute},
		{"asymmetric offsets", models.DayTime{Hour: 8, Minute: 15}, 10, 45 * time.Minute, 15 * time.Minute},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			now := time.Date(2024, time.March, 10, tc.nowHour, 0, 0, 0, time.UTC)
			w := ComputeWindow(tc.departure, now, now, tc.before, tc.after)

			if w.End.Before(w.Start) {
				t.Fatalf("start %v after end %v", w.Start, w.End)
			}
			if got, want := w.End.Sub(w.Start), tc.before+tc.after; got != want {
				t.Fatalf("width = %v, want %v", got, want)
			}
		})
	}
}

func TestComputeWindow_RolloverIsExactlyOneDay(t *testing.T) {
	departure := models.DayTime{Hour: 8}
	base := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

	early := base.Add(-3 * time.Hour)
	late := base.Add(2 * time.Hour) // past the 30-minute trail

	todays := ComputeWindow(departure, early, early, 30*time.Minute, 30*time.Minute)
	rolled := ComputeWindow(departure, late, late, 30*time.Minute, 30*time.Minute)

	if got, want := rolled.Start, todays.Start.Add(24*time.Hour); !got.Equal(want) {
		t.Fatalf("rolled start = %v, want %v", got, want)
	}
	if got, want := rolled.End, todays.End.Add(24*time.Hour); !got.Equal(want) {
		t.Fatalf("rolled end = %v, want %v", got, want)
	}
}

func TestComputeWindow_DepartureExactlyNow(t *testing.T) {
	now := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	w := ComputeWindow(models.DayTime{Hour: 9}, now, now, 30*time.Minute, 30*time.Minute)

	if !w.Contains(now) {
		t.Fatalf("now %v should be inside [%v, %v]", now, w.Start, w.End)
	}
}

func TestInitialWindows_LegOffsets(t *testing.T) {
	p := models.UserProfile{
		ChatID:          1,
		State:           models.StateComplete,
		OfficeDeparture: models.DayTime{Hour: 9},
		HomeDeparture:   models.DayTime{Hour: 18},
	}
	now := time.Date(2024, time.January, 1, 6, 0, 0, 0, time.UTC)

	set := InitialWindows(p, now)

	if got, want := set.ToOffice.End.Sub(set.ToOffice.Start), OfficeLead+OfficeTrail; got != want {
		t.Fatalf("office width = %v, want %v", got, want)
	}
	if got, want := set.ToHome.End.Sub(set.ToHome.Start), HomeLead+HomeTrail; got != want {
		t.Fatalf("home width = %v, want %v", got, want)
	}
	if wantStart := time.Date(2024, time.January, 1, 17, 0, 0, 0, time.UTC); !set.ToHome.Start.Equal(wantStart) {
		t.Fatalf("home start = %v, want %v", set.ToHome.Start, wantStart)
	}
}

func TestNextDayWindow(t *testing.T) {
	prev := models.CheckWindow{
		Start: time.Date(2024, time.January, 1, 8, 30, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC),
	}

	next := NextDayWindow(prev, OfficeLead, OfficeTrail)
	again := NextDayWindow(prev, OfficeLead, OfficeTrail)

	if !next.Start.Equal(prev.Start.Add(24*time.Hour)) || !next.End.Equal(prev.End.Add(24*time.Hour)) {
		t.Fatalf("next = [%v, %v], want previous day plus 24h", next.Start, next.End)
	}
	// Rescheduling is a pure function of the expired window
	if !again.Start.Equal(next.Start) || !again.End.Equal(next.End) {
		t.Fatalf("repeated reschedule diverged: [%v, %v] vs [%v, %v]",
			again.Start, again.End, next.Start, next.End)
	}
}

func TestNextDayWindow_DiscardsThrottledStart(t *testing.T) {
	// A check fired at 09:29 pushed the stored start past the end. The
	// next-day window must come back departure-anchored, not carry the
	// throttled start forward.
	end := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)
	prev := models.CheckWindow{
		Start: time.Date(2024, time.January, 1, 9, 31, 0, 0, time.UTC),
		End:   end,
	}

	next := NextDayWindow(prev, OfficeLead, OfficeTrail)

	wantStart := time.Date(2024, time.January, 2, 8, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.January, 2, 9, 30, 0, 0, time.UTC)
	if !next.Start.Equal(wantStart) || !next.End.Equal(wantEnd) {
		t.Fatalf("next = [%v, %v], want [%v, %v]", next.Start, next.End, wantStart, wantEnd)
	}
	if next.End.Before(next.Start) {
		t.Fatalf("rescheduled window inverted: [%v, %v]", next.Start, next.End)
	}
	if got, want := next.End.Sub(next.Start), OfficeLead+OfficeTrail; got != want {
		t.Fatalf("width = %v, want %v", got, want)
	}
}
