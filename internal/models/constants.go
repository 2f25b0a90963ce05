package models

import "time"

const (
	BookingStatusBooked    = "booked"
	BookingStatusCancelled = "cancelled"
)

const (
	RoleGuest = "guest"
	RoleAdmin = "admin"
)

const (
	// DateLayout is the wire format of booking and availability dates.
	DateLayout = "2006-01-02"

	// AuthTokenKey is the storage key of the persisted bearer token.
	AuthTokenKey = "auth_token"

	// Night is the unit used to count booked nights.
	Night = 24 * time.Hour
)

const (
	// DefaultSessionTTL is how long a stored token lives in Redis
	DefaultSessionTTL = 30 * 24 * time.Hour

	// RateLimitMessages is the number of messages allowed per window
	RateLimitMessages = 20

	// RateLimitWindow is the rate limit window
	RateLimitWindow = 60 // seconds

	// WorkspaceIdleTimeout is how long an inactive chat keeps its in-memory workspace
	WorkspaceIdleTimeout = 24 * 60 // minutes

	// DefaultPageSize is the number of list entries per message
	DefaultPageSize = 10
)

const (
	ParseModeMarkdown = "Markdown"
)
