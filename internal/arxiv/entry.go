package arxiv

// Entry is one paper from the search feed.
type Entry struct {
	// ID is the canonical abstract URL.
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Authors []string `json:"authors"`
	// Link is the HTML landing page, or ID when the feed has none.
	Link       string   `json:"link"`
	Published  string   `json:"published,omitempty"`
	Categories []string `json:"categories,omitempty"`
}
