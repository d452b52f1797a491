package review

// MusicTrack is a soundtrack option for a rendered review.
type MusicTrack struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Mood  string `json:"mood"`
}

// musicCatalog is the built-in soundtrack list. The first track is the
// default for newly generated reviews.
var musicCatalog = []MusicTrack{
	{ID: "gentle-morning", Title: "Gentle Morning", Mood: "calm"},
	{ID: "tiny-steps", Title: "Tiny Steps", Mood: "playful"},
	{ID: "growing-up", Title: "Growing Up", Mood: "warm"},
	{ID: "first-adventures", Title: "First Adventures", Mood: "upbeat"},
	{ID: "lullaby-nights", Title: "Lullaby Nights", Mood: "soft"},
}

// MusicCatalog returns the available soundtrack options.
func MusicCatalog() []MusicTrack {
	tracks := make([]MusicTrack, len(musicCatalog))
	copy(tracks, musicCatalog)
	return tracks
}

// DefaultMusicID returns the soundtrack assigned at generation time.
func DefaultMusicID() string {
	return musicCatalog[0].ID
}
