package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/naguirre11/gamesync/cache"
	"github.com/naguirre11/gamesync/ratelimit"
)

// Default endpoints of the Steam Web API.
const (
	DefaultBaseURL           = "https://api.steampowered.com"
	DefaultOwnedGamesPath    = "/IPlayerService/GetOwnedGames/v0001/"
	DefaultPlayerSummaryPath = "/ISteamUser/GetPlayerSummaries/v0002/"
	defaultRequestsPerSecond = 1
	defaultCacheTTL          = time.Hour
)

// Client wraps the Steam Web API. Every outbound request passes the
// rate limiter; successful responses are cached for the configured TTL.
type Client struct {
	baseURL     string
	apiKey      string
	gamesPath   string
	summaryPath string
	httpClient  *http.Client
	limiter     *ratelimit.Limiter
	games       *cache.Cache[*LibrarySnapshot]
	profiles    *cache.Cache[*Player]
	logger      zerolog.Logger

	mu           sync.Mutex
	requestCount int
	lastRequest  time.Time
}

// Stats is a read-only view of client activity.
type Stats struct {
	RequestCount int
	LastRequest  time.Time
	Games        cache.Stats
	Profiles     cache.Stats
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRequestsPerSecond sets the outbound request rate.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		c.limiter = ratelimit.New(rps)
	}
}

// WithCacheTTL sets how long fetched libraries and profiles stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.games = cache.New[*LibrarySnapshot](ttl)
		c.profiles = cache.New[*Player](ttl)
	}
}

// WithEndpoints overrides the API endpoint paths.
func WithEndpoints(gamesPath, summaryPath string) Option {
	return func(c *Client) {
		c.gamesPath = gamesPath
		c.summaryPath = summaryPath
	}
}

// NewClient creates a new Steam client.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == "" {
		return nil, fmt.Errorf("steam API key is required")
	}

	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		gamesPath:   DefaultOwnedGamesPath,
		summaryPath: DefaultPlayerSummaryPath,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		limiter:     ratelimit.New(defaultRequestsPerSecond),
		games:       cache.New[*LibrarySnapshot](defaultCacheTTL),
		profiles:    cache.New[*Player](defaultCacheTTL),
		logger:      logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// GetOwnedGames fetches a user's game library. With useCache, a
// non-expired snapshot is returned without touching the network or the
// rate limiter. The returned snapshot is shared with the cache; callers
// must not mutate it.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string, useCache bool) (*LibrarySnapshot, error) {
	if !IsValidSteamID(steamID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSteamID, steamID)
	}

	if useCache {
		if snapshot, ok := c.games.Get(steamID); ok {
			c.logger.Debug().Str("steam_id", steamID).Msg("Returning cached game library")
			return snapshot, nil
		}
	}

	params := url.Values{
		"key":                       {c.apiKey},
		"steamid":                   {steamID},
		"format":                    {"json"},
		"include_appinfo":           {"1"},
		"include_played_free_games": {"1"},
	}

	body, err := c.doRequest(ctx, c.gamesPath, params)
	if err != nil {
		return nil, err
	}

	var parsed ownedGamesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrAPIUnavailable, err)
	}

	// Steam answers a hidden game list with a well-formed response that
	// simply has no games collection, not with an error status.
	if parsed.Response.Games == nil {
		return nil, fmt.Errorf("%w: %s", ErrPrivateProfile, steamID)
	}

	snapshot := &LibrarySnapshot{
		SteamID:   steamID,
		GameCount: parsed.Response.GameCount,
		Games:     NormalizeGames(parsed.Response.Games),
		FetchedAt: time.Now(),
	}

	c.games.Set(steamID, snapshot)

	c.logger.Debug().
		Str("steam_id", steamID).
		Int("game_count", snapshot.GameCount).
		Msg("Fetched game library")

	return snapshot, nil
}

// GetPlayerSummary fetches a user's public profile summary, using the
// profile cache under the same rules as GetOwnedGames.
func (c *Client) GetPlayerSummary(ctx context.Context, steamID string, useCache bool) (*Player, error) {
	if !IsValidSteamID(steamID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSteamID, steamID)
	}

	if useCache {
		if player, ok := c.profiles.Get(steamID); ok {
			c.logger.Debug().Str("steam_id", steamID).Msg("Returning cached profile")
			return player, nil
		}
	}

	params := url.Values{
		"key":      {c.apiKey},
		"steamids": {steamID},
		"format":   {"json"},
	}

	body, err := c.doRequest(ctx, c.summaryPath, params)
	if err != nil {
		return nil, err
	}

	var parsed playerSummariesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrAPIUnavailable, err)
	}

	if len(parsed.Response.Players) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, steamID)
	}

	player := parsed.Response.Players[0]
	c.profiles.Set(steamID, &player)

	return &player, nil
}

// doRequest acquires the rate limiter, issues a GET and classifies the
// outcome. Only classified errors escape: transport failures map to
// ErrNetwork, HTTP 429 to ErrRateLimited, HTTP 403 to ErrPrivateProfile
// and any other non-success status to ErrAPIUnavailable.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.mu.Lock()
	c.requestCount++
	c.lastRequest = time.Now()
	c.mu.Unlock()

	// Log the path only; the full URL carries the API key.
	c.logger.Debug().Str("path", path).Msg("Making Steam API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrPrivateProfile, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrAPIUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return body, nil
}

// ClearCache drops all cached libraries and profiles, forcing fresh
// fetches on the next request.
func (c *Client) ClearCache() {
	c.games.Clear()
	c.profiles.Clear()
}

// SweepCache removes expired entries from both caches and returns the
// number removed. The client never calls this itself; a host process
// schedules it if it cares about reclaiming memory between reads.
func (c *Client) SweepCache() int {
	return c.games.Sweep() + c.profiles.Sweep()
}

// Stats returns a snapshot of request and cache activity.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	requestCount := c.requestCount
	lastRequest := c.lastRequest
	c.mu.Unlock()

	return Stats{
		RequestCount: requestCount,
		LastRequest:  lastRequest,
		Games:        c.games.Stats(),
		Profiles:     c.profiles.Stats(),
	}
}
