// Package steam provides a client for the Steam Web API.
//
// The client wraps the two endpoints gamesync needs — GetOwnedGames and
// GetPlayerSummaries — behind a fetch pipeline that validates the
// SteamID, consults an in-memory TTL cache, gates the outbound call
// through a rate limiter and classifies every failure into a small,
// closed set of errors.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := steam.NewClient(steam.DefaultBaseURL, apiKey, logger,
//		steam.WithRequestsPerSecond(1),
//		steam.WithCacheTTL(time.Hour),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	snapshot, err := client.GetOwnedGames(ctx, "76561197960287930", true)
//
// # Error Handling
//
// Failures map to package sentinels checked with errors.Is:
//
//   - ErrInvalidSteamID: identifier is not 17 decimal digits
//   - ErrPrivateProfile: HTTP 403, or a response with no games collection
//   - ErrRateLimited: HTTP 429 from Steam
//   - ErrAPIUnavailable: any other non-success status
//   - ErrNetwork: transport-level failure
//   - ErrProfileNotFound: summary query matched no profile
//
// The cache and rate limiter never produce these errors themselves; the
// cache treats anything missing or stale as a plain miss, and the
// limiter only fails when the caller's context ends.
package steam
