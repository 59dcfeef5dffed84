// Package schedule holds the pure window math for commute check scheduling:
// when a leg's check window opens and closes, and how it rolls forward day by
// day. Nothing here touches the store or the network.
package schedule

import (
	"time"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

// Per-leg window offsets around the departure time. The return commute gets a
// longer lead so users hear about delays while still at their desk.
const (
	OfficeLead  = 30 * time.Minute
	OfficeTrail = 30 * time.Minute
	HomeLead    = 60 * time.Minute
	HomeTrail   = 30 * time.Minute
)

// LegOffsets returns the lead/trail offsets for a commute leg.
func LegOffsets(leg models.Leg) (before, after time.Duration) {
	if leg == models.LegToHome {
		return HomeLead, HomeTrail
	}
	return OfficeLead, OfficeTrail
}

// ComputeWindow builds the check window around departure on ref's calendar
// date. If the whole window has already elapsed relative to now, it is moved
// one day forward. Callers run at least once per calendar day, so a single
// rollover is always enough.
func ComputeWindow(departure models.DayTime, ref, now time.Time, before, after time.Duration) models.CheckWindow {
	base := time.Date(ref.Year(), ref.Month(), ref.Day(), departure.Hour, departure.Minute, 0, 0, ref.Location())
	w := models.CheckWindow{
		Start: base.Add(-before),
		End:   base.Add(after),
	}
	if w.End.Before(now) {
		w.Start = w.Start.Add(24 * time.Hour)
		w.End = w.End.Add(24 * time.Hour)
	}
	return w
}

// WindowForLeg computes the next window for one leg of a completed profile,
// anchored on now's calendar date.
func WindowForLeg(p models.UserProfile, leg models.Leg, now time.Time) models.CheckWindow {
	departure := p.OfficeDeparture
	if leg == models.LegToHome {
		departure = p.HomeDeparture
	}
	before, after := LegOffsets(leg)
	return ComputeWindow(departure, now, now, before, after)
}

// InitialWindows seeds both legs' windows when onboarding completes.
func InitialWindows(p models.UserProfile, now time.Time) models.WindowSet {
	return models.WindowSet{
		ToOffice: WindowForLeg(p, models.LegToOffice, now),
		ToHome:   WindowForLeg(p, models.LegToHome, now),
	}
}

// NextDayWindow rebuilds a leg's window for the day after the expired one.
// The departure instant is recovered from the window end, which checks never
// move, and the start is recomputed from the fixed offsets: any throttle
// advance applied while the window was active is discarded, so the result
// depends only on the expired window's own date and the offsets. Anchoring on
// that date rather than the wall clock means a stalled scheduler catches up
// one day per tick instead of skipping days.
func NextDayWindow(prev models.CheckWindow, before, after time.Duration) models.CheckWindow {
	base := prev.End.Add(-after).Add(24 * time.Hour)
	return models.CheckWindow{
		Start: base.Add(-before),
		End:   base.Add(after),
	}
}
