package model

import "time"

// Origin identifies which text source a piece of the corpus came from
type Origin string

const (
	OriginTitle       Origin = "title"          // Episode title (curated by the content owner)
	OriginDescription Origin = "description"    // Episode description
	OriginComment     Origin = "comment"        // Viewer comment
	OriginSnippet     Origin = "search_snippet" // Web search result snippet
)

// SourceText is one unit of corpus text, immutable once captured
type SourceText struct {
	Origin    Origin `json:"origin"`
	Content   string `json:"content"`
	SourceURL string `json:"source_url,omitempty"` // Where the text came from, if known
}

// Subject is the unit of work being analyzed (an episode/video)
type Subject struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Comment is a viewer comment as returned by the comment fetcher
type Comment struct {
	Text        string    `json:"text"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	LikeCount   int       `json:"like_count,omitempty"`
}

// SearchHit is a single web search result as returned by the search fetcher
type SearchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}
