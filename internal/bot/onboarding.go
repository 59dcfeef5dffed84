package bot

import (
	"fmt"

	"github.com/xaenox/commute-alert-bot/internal/models"
	"github.com/xaenox/commute-alert-bot/internal/schedule"
)

// Onboarding advances strictly forward: office time, home time, home
// location, office location. Invalid input re-prompts and leaves the profile
// untouched. These functions mutate the profile in place so the bot can run
// them inside a storage update.

const invalidTimeReply = "❌ Invalid time format. Please use HH:MM (24-hour format).\nExample: 09:30 or 17:45"

// applyTimeInput handles a free-text message while a departure time is
// awaited. It returns the reply text and whether the input was accepted.
func applyTimeInput(p *models.UserProfile, text string) (string, bool) {
	t, err := schedule.ParseDayTime(text)
	if err != nil {
		return invalidTimeReply, false
	}

	switch p.State {
	case models.StateAwaitingOfficeTime:
		p.OfficeDeparture = t
		p.State = models.StateAwaitingHomeTime
		return fmt.Sprintf("✅ Office start time saved: %s\n\nWhen will you start to home from office? (Please enter time in HH:MM format, 24-hour)", t), true

	case models.StateAwaitingHomeTime:
		p.HomeDeparture = t
		p.State = models.StateAwaitingHomeLocation
		return fmt.Sprintf("✅ Home start time saved: %s\n\nNow, please send me your Home location 🏠\nTap the 📍 button below to share your location.", t), true

	case models.StateComplete:
		return "✅ Setup is already complete. Use /status to see your schedule, or /start to reconfigure.", false

	default:
		return "Please use /start to begin setup.", false
	}
}

// applyLocationInput handles a shared location. It returns the reply text,
// whether the location was accepted, and whether onboarding just completed.
func applyLocationInput(p *models.UserProfile, lat, lon float64) (reply string, accepted, completed bool) {
	switch p.State {
	case models.StateAwaitingHomeLocation:
		p.HomeLocation = models.Coordinates{Lat: lat, Lon: lon}
		p.State = models.StateAwaitingOfficeLocation
		return fmt.Sprintf("✅ Home location saved!\n📍 Coordinates: %.4f, %.4f\n\nNow, please send me your Office location 🏢\nTap the 📍 button below to share your office location.", lat, lon), true, false

	case models.StateAwaitingOfficeLocation:
		p.OfficeLocation = models.Coordinates{Lat: lat, Lon: lon}
		p.State = models.StateComplete
		reply = fmt.Sprintf("✅ Office location saved!\n📍 Coordinates: %.4f, %.4f\n\n"+
			"🎉 Setup complete! Your traffic monitoring is now active.\n\n"+
			"📋 Your Schedule:\n🏠➡️🏢 Office departure: %s\n🏢➡️🏠 Home departure: %s\n\n"+
			"You'll receive traffic updates automatically before your commute times!",
			lat, lon, p.OfficeDeparture, p.HomeDeparture)
		return reply, true, true

	case models.StateComplete:
		return "✅ Setup is already complete. Use /status to see your schedule, or /start to reconfigure.", false, false

	default:
		return "Please use /start to begin setup.", false, false
	}
}
