package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSteamID      = "76561197960287930"
	otherSteamID     = "76561198000000001"
	ownedGamesJSON   = `{"response":{"game_count":2,"games":[{"appid":730,"name":"Counter-Strike 2","playtime_forever":5400},{"appid":570,"name":"Dota 2"}]}}`
	playerSummaryFmt = `{"response":{"players":[{"steamid":"%s","personaname":"gordon","profileurl":"https://steamcommunity.com/id/gordon/","avatar":"avatar-url","communityvisibilitystate":3}]}}`
)

// newTestClient builds a client against the given handler with a rate
// limit high enough that tests never wait on it.
func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithRequestsPerSecond(1000)}, opts...)
	client, err := NewClient(server.URL, "test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)

	return client, server
}

func TestNewClient(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		_, err := NewClient(DefaultBaseURL, "", zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key is required")
	})

	t.Run("empty base URL falls back to default", func(t *testing.T) {
		client, err := NewClient("", "test-key", zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, client.baseURL)
	})
}

func TestGetOwnedGames(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		assert.Equal(t, DefaultOwnedGamesPath, r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "test-key", query.Get("key"))
		assert.Equal(t, testSteamID, query.Get("steamid"))
		assert.Equal(t, "json", query.Get("format"))
		assert.Equal(t, "1", query.Get("include_appinfo"))
		assert.Equal(t, "1", query.Get("include_played_free_games"))

		fmt.Fprint(w, ownedGamesJSON)
	}))

	snapshot, err := client.GetOwnedGames(context.Background(), testSteamID, true)
	require.NoError(t, err)

	assert.Equal(t, testSteamID, snapshot.SteamID)
	assert.Equal(t, 2, snapshot.GameCount)
	assert.False(t, snapshot.FetchedAt.IsZero())
	require.Len(t, snapshot.Games, 2)

	assert.Equal(t, 730, snapshot.Games[0].AppID)
	assert.Equal(t, "Counter-Strike 2", snapshot.Games[0].Name)
	assert.Equal(t, 5400, snapshot.Games[0].Playtime)

	// Dota entry had no playtime fields at all
	assert.Equal(t, 570, snapshot.Games[1].AppID)
	assert.Equal(t, 0, snapshot.Games[1].Playtime)
	assert.Equal(t, 0, snapshot.Games[1].RecentPlaytime)
	assert.False(t, snapshot.Games[1].HasStats)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOwnedGamesInvalidID(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, ownedGamesJSON)
	}))

	tests := []string{"", "not-a-steam-id", "123", "7656119796028793a"}
	for _, id := range tests {
		_, err := client.GetOwnedGames(context.Background(), id, true)
		assert.ErrorIs(t, err, ErrInvalidSteamID, "id %q", id)
	}

	// Validation happens before any cache or network access
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestGetOwnedGamesCaching(t *testing.T) {
	t.Run("cached hit issues one transport call", func(t *testing.T) {
		var calls int32
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			fmt.Fprint(w, ownedGamesJSON)
		}))

		first, err := client.GetOwnedGames(context.Background(), testSteamID, true)
		require.NoError(t, err)
		second, err := client.GetOwnedGames(context.Background(), testSteamID, true)
		require.NoError(t, err)

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.Same(t, first, second)
	})

	t.Run("cache bypass always issues transport calls", func(t *testing.T) {
		var calls int32
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			fmt.Fprint(w, ownedGamesJSON)
		}))

		_, err := client.GetOwnedGames(context.Background(), testSteamID, false)
		require.NoError(t, err)
		_, err = client.GetOwnedGames(context.Background(), testSteamID, false)
		require.NoError(t, err)

		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("expired entry triggers a fresh fetch", func(t *testing.T) {
		var calls int32
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			fmt.Fprint(w, ownedGamesJSON)
		}), WithCacheTTL(30*time.Millisecond))

		_, err := client.GetOwnedGames(context.Background(), testSteamID, true)
		require.NoError(t, err)

		time.Sleep(60 * time.Millisecond)

		_, err = client.GetOwnedGames(context.Background(), testSteamID, true)
		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("clear forces a refetch", func(t *testing.T) {
		var calls int32
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			fmt.Fprint(w, ownedGamesJSON)
		}))

		_, err := client.GetOwnedGames(context.Background(), testSteamID, true)
		require.NoError(t, err)

		client.ClearCache()

		_, err = client.GetOwnedGames(context.Background(), testSteamID, true)
		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})
}

func TestGetOwnedGamesErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "HTTP 429",
			status:  http.StatusTooManyRequests,
			wantErr: ErrRateLimited,
		},
		{
			name:    "HTTP 403",
			status:  http.StatusForbidden,
			wantErr: ErrPrivateProfile,
		},
		{
			name:    "HTTP 500",
			status:  http.StatusInternalServerError,
			wantErr: ErrAPIUnavailable,
		},
		{
			name:    "HTTP 404",
			status:  http.StatusNotFound,
			wantErr: ErrAPIUnavailable,
		},
		{
			name:    "well-formed response without games collection",
			status:  http.StatusOK,
			body:    `{"response":{}}`,
			wantErr: ErrPrivateProfile,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"response":`,
			wantErr: ErrAPIUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					fmt.Fprint(w, tt.body)
				}
			}))

			_, err := client.GetOwnedGames(context.Background(), testSteamID, true)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetOwnedGamesNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := NewClient(server.URL, "test-key", zerolog.Nop(), WithRequestsPerSecond(1000))
	require.NoError(t, err)

	// Transport failure, no HTTP status involved
	server.Close()

	_, err = client.GetOwnedGames(context.Background(), testSteamID, true)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestGetOwnedGamesEmptyLibrary(t *testing.T) {
	// An empty games array is a valid, public, empty library; only a
	// missing collection means private.
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"game_count":0,"games":[]}}`)
	}))

	snapshot, err := client.GetOwnedGames(context.Background(), testSteamID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.GameCount)
	assert.Empty(t, snapshot.Games)
}

func TestGetPlayerSummary(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var calls int32
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			assert.Equal(t, DefaultPlayerSummaryPath, r.URL.Path)
			assert.Equal(t, testSteamID, r.URL.Query().Get("steamids"))
			fmt.Fprintf(w, playerSummaryFmt, testSteamID)
		}))

		player, err := client.GetPlayerSummary(context.Background(), testSteamID, true)
		require.NoError(t, err)
		assert.Equal(t, "gordon", player.PersonaName)
		assert.True(t, player.IsPublic())

		// Second read is served from the profile cache
		_, err = client.GetPlayerSummary(context.Background(), testSteamID, true)
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("zero players", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"response":{"players":[]}}`)
		}))

		_, err := client.GetPlayerSummary(context.Background(), testSteamID, true)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		var calls int32
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))

		_, err := client.GetPlayerSummary(context.Background(), "bogus", true)
		assert.ErrorIs(t, err, ErrInvalidSteamID)
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})
}

func TestClientStats(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == DefaultOwnedGamesPath {
			fmt.Fprint(w, ownedGamesJSON)
			return
		}
		fmt.Fprintf(w, playerSummaryFmt, otherSteamID)
	}))

	stats := client.Stats()
	assert.Equal(t, 0, stats.RequestCount)
	assert.True(t, stats.LastRequest.IsZero())

	_, err := client.GetOwnedGames(context.Background(), testSteamID, true)
	require.NoError(t, err)
	_, err = client.GetPlayerSummary(context.Background(), otherSteamID, true)
	require.NoError(t, err)

	stats = client.Stats()
	assert.Equal(t, 2, stats.RequestCount)
	assert.False(t, stats.LastRequest.IsZero())
	assert.Equal(t, 1, stats.Games.Entries)
	assert.Equal(t, 1, stats.Profiles.Entries)

	// Cached hit leaves the request count untouched
	_, err = client.GetOwnedGames(context.Background(), testSteamID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, client.Stats().RequestCount)
}

func TestSweepCache(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ownedGamesJSON)
	}), WithCacheTTL(30*time.Millisecond))

	_, err := client.GetOwnedGames(context.Background(), testSteamID, true)
	require.NoError(t, err)

	assert.Equal(t, 0, client.SweepCache())

	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 1, client.SweepCache())
	assert.Equal(t, 0, client.Stats().Games.Entries)
}
