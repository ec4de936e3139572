package domain

// UserProfile accumulates what the interview learns about the reader.
// Each interview step sets exactly one field; fields are never partially
// overwritten.
type UserProfile struct {
	Name            string   `json:"name"`
	Genres          []string `json:"genres"`
	RecentBooks     []string `json:"recent_books"`
	FavoriteBooks   []string `json:"favorite_books"`
	FavoriteAuthors []string `json:"favorite_authors"`
	TrackingApp     string   `json:"tracking_app"`
}
