package dto

import "time"

// MyChapterResponse is one row of the "my chapters" listings: the user's
// progress joined with chapter and book display data.
type MyChapterResponse struct {
	ChapterID     int64      `json:"chapter_id"`
	ChapterTitle  string     `json:"chapter_title"`
	OrderIndex    int        `json:"order_index"`
	BookID        int64      `json:"book_id"`
	BookTitle     string     `json:"book_title"`
	BookThumbnail *string    `json:"book_thumbnail,omitempty"`
	BookLevel     *string    `json:"book_level,omitempty"`
	Percent       int        `json:"percent"`
	Completed     bool       `json:"completed"`
	LastAccessed  *time.Time `json:"last_accessed,omitempty"`
}

type UpdatePercentRequest struct {
	Percent int `json:"percent"`
}

type UpdateProgressRequest struct {
	Completed bool `json:"completed"`
	Percent   int  `json:"percent"`
}

type PatchProgressRequest struct {
	Completed *bool `json:"completed,omitempty"`
	Percent   *int  `json:"percent,omitempty"`
}

type ProgressResponse struct {
	ID           int64      `json:"id"`
	ChapterID    int64      `json:"chapter_id"`
	Completed    bool       `json:"completed"`
	Percent      int        `json:"percent"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	Version      int64      `json:"version"`
}

type BookCompletionResponse struct {
	BookID     int64   `json:"book_id"`
	Completion float64 `json:"completion"`
}
