package steam

import "errors"

// Common errors returned by the Steam client. Every failure of the
// fetch pipeline maps to exactly one of these; callers classify with
// errors.Is.
var (
	// ErrInvalidSteamID indicates the identifier is not a 17-digit SteamID64.
	ErrInvalidSteamID = errors.New("invalid steam id")

	// ErrPrivateProfile indicates the profile or its game list is not visible.
	// Steam reports a hidden game list as a well-formed response with no games
	// collection, so that shape maps here as well as HTTP 403.
	ErrPrivateProfile = errors.New("profile is private")

	// ErrRateLimited indicates Steam rejected the request with HTTP 429.
	ErrRateLimited = errors.New("steam API rate limit exceeded")

	// ErrAPIUnavailable indicates an unexpected non-success HTTP status.
	ErrAPIUnavailable = errors.New("steam API unavailable")

	// ErrNetwork indicates a transport-level failure before any HTTP status
	// was received.
	ErrNetwork = errors.New("network error contacting steam API")

	// ErrProfileNotFound indicates a well-formed summary response that
	// matched no profile.
	ErrProfileNotFound = errors.New("no profile found for steam id")
)
