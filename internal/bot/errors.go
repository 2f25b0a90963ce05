package bot

import (
	"errors"

	"bookbnb/internal/domain"
	"bookbnb/internal/screens"
)

// errorText is the chat reply for a failed operation, with a hint when the user has to act.
func errorText(err error) string {
	if err == nil {
		return ""
	}

	msg := "❌ " + domain.UserMessage(err)
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return msg + "\nThis action is available to administrators only."
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrSessionExpired):
		return msg + "\nPlease /login first."
	}
	return msg
}

// viewText renders a screen view after an operation, following its redirect.
func viewText(v screens.View) string {
	switch v.Redirect {
	case screens.RouteLogin:
		return "🔒 " + v.Message + "\nPlease /login first."
	case screens.RouteHome:
		return "⛔ " + v.Message + "\nUse /properties to browse listings."
	}
	return v.Message
}
