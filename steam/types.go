package steam

import "time"

// Community profile visibility states as reported by GetPlayerSummaries.
const (
	VisibilityPrivate     = 1
	VisibilityFriendsOnly = 2
	VisibilityPublic      = 3
)

// ownedGamesResponse represents the envelope returned by GetOwnedGames
type ownedGamesResponse struct {
	Response struct {
		GameCount int       `json:"game_count"`
		Games     []RawGame `json:"games"`
	} `json:"response"`
}

// RawGame is a single games entry exactly as the API delivers it.
// Optional fields are pointers so an absent field is distinguishable
// from a zero value.
type RawGame struct {
	AppID                    int    `json:"appid"`
	Name                     string `json:"name"`
	PlaytimeForever          *int   `json:"playtime_forever"`
	Playtime2Weeks           *int   `json:"playtime_2weeks"`
	ImgIconURL               string `json:"img_icon_url"`
	ImgLogoURL               string `json:"img_logo_url"`
	HasCommunityVisibleStats *bool  `json:"has_community_visible_stats"`
}

// Game is the normalized view of a RawGame with all optional fields defaulted.
type Game struct {
	AppID          int
	Name           string
	Playtime       int // total minutes on record
	RecentPlaytime int // minutes played in the last two weeks
	IconURL        string
	LogoURL        string
	HasStats       bool
}

// Hours returns the total playtime in hours.
func (g Game) Hours() float64 {
	return float64(g.Playtime) / 60
}

// LibrarySnapshot is one user's game library as captured at fetch time.
// Snapshots are never mutated after creation; a refresh stores a new one.
type LibrarySnapshot struct {
	SteamID   string
	GameCount int
	Games     []Game
	FetchedAt time.Time
}

// playerSummariesResponse represents the envelope returned by GetPlayerSummaries
type playerSummariesResponse struct {
	Response struct {
		Players []Player `json:"players"`
	} `json:"response"`
}

// Player represents a single player summary record
type Player struct {
	SteamID                  string `json:"steamid"`
	PersonaName              string `json:"personaname"`
	ProfileURL               string `json:"profileurl"`
	Avatar                   string `json:"avatar"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
}

// IsPublic reports whether the profile is visible to everyone.
func (p *Player) IsPublic() bool {
	return p.CommunityVisibilityState == VisibilityPublic
}
