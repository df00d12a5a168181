package providers

import "strings"

// EmojiUnknown marks a condition outside the fixed vocabulary. Unmapped
// conditions are never an error.
const EmojiUnknown = "🌤️"

// ConditionEmoji maps a free-text condition description onto the fixed emoji
// vocabulary shared by both providers. Matching is substring-based because
// upstream wordings vary ("Light rain shower", "light intensity drizzle").
func ConditionEmoji(condition string) string {
	c := strings.ToLower(condition)

	switch {
	case strings.Contains(c, "thunder") || strings.Contains(c, "storm"):
		return "⛈️"
	case strings.Contains(c, "snow") || strings.Contains(c, "sleet") || strings.Contains(c, "blizzard"):
		return "❄️"
	case strings.Contains(c, "rain") || strings.Contains(c, "drizzle"):
		if strings.Contains(c, "heavy") || strings.Contains(c, "torrential") {
			return "🌧️"
		}
		return "🌦️"
	case strings.Contains(c, "partly cloudy"):
		return "⛅"
	case strings.Contains(c, "cloud") || strings.Contains(c, "overcast"):
		return "☁️"
	case strings.Contains(c, "sunny") || strings.Contains(c, "clear"):
		return "☀️"
	case strings.Contains(c, "fog") || strings.Contains(c, "mist") || strings.Contains(c, "haze"):
		return "🌫️"
	case strings.Contains(c, "wind"):
		return "💨"
	default:
		return EmojiUnknown
	}
}
