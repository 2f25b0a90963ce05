package screens

import (
	"errors"

	"bookbnb/internal/domain"

	"github.com/rs/zerolog"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Route is where the front end should send the user next.
type Route string

const (
	RouteNone  Route = ""
	RouteLogin Route = "/auth"
	RouteHome  Route = "/"
)

// View is the state every screen exposes for rendering.
type View struct {
	Status   Status
	Message  string
	Redirect Route
}

// redirectFor maps auth failures to a route: forbidden goes home, everything else to login.
func redirectFor(err error) Route {
	if !domain.IsAuthError(err) {
		return RouteNone
	}
	if errors.Is(err, domain.ErrForbidden) {
		return RouteHome
	}
	return RouteLogin
}

func failedView(err error) View {
	return View{Status: StatusFailed, Message: domain.UserMessage(err), Redirect: redirectFor(err)}
}

func nopLogger(logger *zerolog.Logger) *zerolog.Logger {
	if logger != nil {
		return logger
	}
	l := zerolog.Nop()
	return &l
}

func publish(pub domain.EventPublisher, logger *zerolog.Logger, eventType string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.PublishJSON(eventType, payload); err != nil {
		logger.Warn().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}
