package models

// Profile holds the public profile data scraped for a member.
type Profile struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Member is one watchlist owner under comparison. Usernames are opaque
// and compared case-insensitively; the HTTP boundary lowercases them
// before they reach the core.
type Member struct {
	Username string   `json:"username"`
	Films    []Film   `json:"films"` // scrape order, kept for first-seen display
	Profile  *Profile `json:"profile,omitempty"`
}

// Connection is one entry in a member's social graph (following list).
type Connection struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}
