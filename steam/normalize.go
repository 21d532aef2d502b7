package steam

// NormalizeGame converts a raw API game record into its canonical form.
// Missing playtime fields default to 0 and a missing stats flag to false;
// appid and name are carried over verbatim.
func NormalizeGame(raw RawGame) Game {
	game := Game{
		AppID:   raw.AppID,
		Name:    raw.Name,
		IconURL: raw.ImgIconURL,
		LogoURL: raw.ImgLogoURL,
	}

	if raw.PlaytimeForever != nil {
		game.Playtime = *raw.PlaytimeForever
	}
	if raw.Playtime2Weeks != nil {
		game.RecentPlaytime = *raw.Playtime2Weeks
	}
	if raw.HasCommunityVisibleStats != nil {
		game.HasStats = *raw.HasCommunityVisibleStats
	}

	return game
}

// NormalizeGames maps a raw games collection to normalized records.
// Pure; no I/O. A nil input yields an empty, non-nil slice so snapshots
// always carry a usable games sequence.
func NormalizeGames(raw []RawGame) []Game {
	games := make([]Game, 0, len(raw))
	for _, r := range raw {
		games = append(games, NormalizeGame(r))
	}
	return games
}
