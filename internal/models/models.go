package models

import (
	"fmt"
	"time"
)

// SetupState tracks where a user is in the onboarding dialogue.
type SetupState string

const (
	StateAwaitingOfficeTime     SetupState = "awaiting_office_time"
	StateAwaitingHomeTime       SetupState = "awaiting_home_time"
	StateAwaitingHomeLocation   SetupState = "awaiting_home_location"
	StateAwaitingOfficeLocation SetupState = "awaiting_office_location"
	StateComplete               SetupState = "complete"
)

// Coordinates is a latitude/longitude pair as shared from the chat client.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DayTime is a time of day without a date, e.g. a daily departure time.
type DayTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t DayTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// UserProfile holds one chat's onboarding state and committed commute data.
// Fields past State are only meaningful once the corresponding step is done.
type UserProfile struct {
	ChatID          int64       `json:"chat_id"`
	State           SetupState  `json:"state"`
	OfficeDeparture DayTime     `json:"office_departure"`
	HomeDeparture   DayTime     `json:"home_departure"`
	HomeLocation    Coordinates `json:"home_location"`
	OfficeLocation  Coordinates `json:"office_location"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Leg is one directed commute trip.
type Leg string

const (
	LegToOffice Leg = "to_office"
	LegToHome   Leg = "to_home"
)

// Description returns the route label used in outbound messages.
func (l Leg) Description() string {
	if l == LegToHome {
		return "🏢➡️🏠 Office to Home"
	}
	return "🏠➡️🏢 Home to Office"
}

// CheckWindow is the absolute interval during which traffic checks for a leg
// may fire.
type CheckWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w CheckWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WindowSet holds the next check window for each commute leg of one user.
type WindowSet struct {
	ToOffice CheckWindow `json:"to_office"`
	ToHome   CheckWindow `json:"to_home"`
}

// Window returns the window for the given leg.
func (s WindowSet) Window(leg Leg) CheckWindow {
	if leg == LegToHome {
		return s.ToHome
	}
	return s.ToOffice
}

// SetWindow replaces the window for the given leg.
func (s *WindowSet) SetWindow(leg Leg, w CheckWindow) {
	if leg == LegToHome {
		s.ToHome = w
	} else {
		s.ToOffice = w
	}
}

// OutboundMessage is one text reply queued for delivery to a chat.
type OutboundMessage struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}
