// Package overlap computes the games shared by every library in a set
// of Steam users, tolerating individual fetch failures.
package overlap

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/naguirre11/gamesync/steam"
)

// ErrInsufficientIDs is returned when fewer than two Steam IDs are given.
var ErrInsufficientIDs = errors.New("at least two steam ids are required")

// SharedGame is one game present in every requested library.
type SharedGame struct {
	AppID      int
	Name       string
	IconURL    string
	OwnerCount int
}

// Result holds the shared games plus per-identifier metadata. A fetch
// failure for one identifier does not abort the computation; that
// library counts as empty and the failure is kept in Errors so callers
// can tell "no overlap" apart from "a library failed to load".
type Result struct {
	Requested []string
	Shared    []SharedGame
	Players   map[string]string // steam id -> persona name, best effort
	Errors    map[string]error  // steam id -> fetch failure, if any
}

// Engine fetches libraries through a steam.API and intersects them.
type Engine struct {
	client steam.API
	logger zerolog.Logger
}

// NewEngine creates an overlap engine.
func NewEngine(client steam.API, logger zerolog.Logger) *Engine {
	return &Engine{
		client: client,
		logger: logger,
	}
}

// FindSharedGames fetches each user's library in order and returns the
// games present in all of them. The result preserves the order of the
// first user's library, and every shared game's OwnerCount equals the
// number of requested identifiers, failed fetches included.
func (e *Engine) FindSharedGames(ctx context.Context, steamIDs []string) (*Result, error) {
	if len(steamIDs) < 2 {
		return nil, ErrInsufficientIDs
	}

	result := &Result{
		Requested: slices.Clone(steamIDs),
		Errors:    make(map[string]error),
	}

	// Libraries are fetched one at a time; the client's rate limiter
	// paces the calls, so fanning out here would gain nothing.
	libraries := make([][]steam.Game, 0, len(steamIDs))
	for _, id := range steamIDs {
		snapshot, err := e.client.GetOwnedGames(ctx, id, true)
		if err != nil {
			e.logger.Warn().
				Err(err).
				Str("steam_id", id).
				Msg("Failed to fetch library, treating as empty")
			result.Errors[id] = err
			libraries = append(libraries, nil)
			continue
		}
		libraries = append(libraries, snapshot.Games)
	}

	result.Shared = intersect(libraries, len(steamIDs))
	result.Players = e.fetchPersonaNames(ctx, steamIDs)

	return result, nil
}

// intersect keeps every game of the first library that appears, by app
// id, in all the others. An empty or failed library therefore empties
// the whole result.
func intersect(libraries [][]steam.Game, ownerCount int) []SharedGame {
	others := make([]map[int]struct{}, 0, len(libraries)-1)
	for _, library := range libraries[1:] {
		ids := make(map[int]struct{}, len(library))
		for _, game := range library {
			ids[game.AppID] = struct{}{}
		}
		others = append(others, ids)
	}

	var shared []SharedGame
	for _, game := range libraries[0] {
		ownedByAll := true
		for _, ids := range others {
			if _, ok := ids[game.AppID]; !ok {
				ownedByAll = false
				break
			}
		}
		if ownedByAll {
			shared = append(shared, SharedGame{
				AppID:      game.AppID,
				Name:       game.Name,
				IconURL:    game.IconURL,
				OwnerCount: ownerCount,
			})
		}
	}
	return shared
}

// fetchPersonaNames resolves display names for the requested users.
// Lookups run concurrently and individual failures are dropped; names
// only decorate the result.
func (e *Engine) fetchPersonaNames(ctx context.Context, steamIDs []string) map[string]string {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var mu sync.Mutex
	names := make(map[string]string, len(steamIDs))

	for _, id := range steamIDs {
		id := id
		g.Go(func() error {
			player, err := e.client.GetPlayerSummary(ctx, id, true)
			if err != nil {
				e.logger.Debug().
					Err(err).
					Str("steam_id", id).
					Msg("Failed to resolve persona name")
				return nil
			}

			mu.Lock()
			names[id] = player.PersonaName
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return names
}
