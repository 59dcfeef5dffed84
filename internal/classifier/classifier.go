// Package classifier maps a measured traffic delay into an alert tier and
// composes the user-facing alert text for it.
package classifier

import (
	"fmt"
	"time"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

// Tier is the severity of one traffic measurement.
type Tier int

const (
	TierClear Tier = iota
	TierMinor
	TierUrgent
)

func (t Tier) String() string {
	switch t {
	case TierUrgent:
		return "urgent"
	case TierMinor:
		return "minor"
	default:
		return "clear"
	}
}

// Classifier holds the process-wide delay thresholds, in minutes.
type Classifier struct {
	urgentMins int
	minorMins  int
}

// New creates a Classifier. Thresholds must satisfy minor < urgent; config
// validation enforces that before this is reached.
func New(urgentMins, minorMins int) *Classifier {
	return &Classifier{
		urgentMins: urgentMins,
		minorMins:  minorMins,
	}
}

// Classify buckets a delay into a tier. Boundaries are inclusive: a delay
// equal to a threshold lands in that threshold's tier.
func (c *Classifier) Classify(delayMins int) Tier {
	switch {
	case delayMins >= c.urgentMins:
		return TierUrgent
	case delayMins >= c.minorMins:
		return TierMinor
	default:
		return TierClear
	}
}

// ComposeAlert formats the outbound text for one traffic measurement. Travel
// time only appears in the text; the tier depends on the delay alone.
func (c *Classifier) ComposeAlert(leg models.Leg, travelMins, delayMins int, now time.Time) string {
	route := leg.Description()
	clock := now.Format("15:04")

	switch c.Classify(delayMins) {
	case TierUrgent:
		return fmt.Sprintf(
			"🚨 %s Traffic Alert!\n⏰ Time: %s\n🕐 Total travel time: %d mins\n🚦 Traffic delay: %d mins\n💡 Consider leaving early!",
			route, clock, travelMins, delayMins)
	case TierMinor:
		return fmt.Sprintf(
			"⚠️ %s Traffic Update\n⏰ Time: %s\n🕐 Total travel time: %d mins\n🚦 Minor delay: %d mins\nℹ️ Normal traffic conditions",
			route, clock, travelMins, delayMins)
	default:
		return fmt.Sprintf(
			"✅ %s Traffic Update\n⏰ Time: %s\n🕐 Travel time: %d mins\n🚦 No delays - all clear!",
			route, clock, travelMins)
	}
}

// ComposeFailure formats the text sent when a traffic check could not be
// completed. The user always hears that an attempt was made.
func (c *Classifier) ComposeFailure(leg models.Leg, err error) string {
	return fmt.Sprintf("❌ Error getting traffic update for %s: %v", leg.Description(), err)
}
