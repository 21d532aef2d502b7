package steam

import (
	"context"
)

// API defines the Steam operations consumers depend on.
type API interface {
	// GetOwnedGames fetches a user's game library, serving from cache
	// when useCache is set and a fresh snapshot exists.
	GetOwnedGames(ctx context.Context, steamID string, useCache bool) (*LibrarySnapshot, error)

	// GetPlayerSummary fetches a user's profile summary under the same
	// caching rules.
	GetPlayerSummary(ctx context.Context, steamID string, useCache bool) (*Player, error)
}
