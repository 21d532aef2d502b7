package steam

// IsValidSteamID reports whether s is a SteamID64: exactly 17 ASCII
// decimal digits. It never rejects by panicking; any other shape,
// including the empty string, is simply false.
func IsValidSteamID(s string) bool {
	if len(s) != 17 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
