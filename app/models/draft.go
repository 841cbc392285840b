package models

import "strings"

// PostDraft is the editor's field state: every value the author can
// touch, held as entered regardless of what the editor is doing.
type PostDraft struct {
	Title      string
	Slug       string
	Content    string
	Excerpt    string
	CoverImage string
	Published  bool
}

// DraftIssue names the first field that failed submit-time validation
// and the message shown to the author.
type DraftIssue struct {
	Field  string
	Reason string
}

// Validate runs the submit-time checks in order and, when they all
// pass, returns the record to persist: title and slug trimmed, blank
// excerpt and cover image collapsed to nil. The caller supplies the
// acting identity's id; an empty id means nobody is signed in.
func (d PostDraft) Validate(authorID string) (Post, *DraftIssue) {
	if authorID == "" {
		return Post{}, &DraftIssue{Field: "author", Reason: "You must be logged in"}
	}
	if strings.TrimSpace(d.Title) == "" {
		return Post{}, &DraftIssue{Field: "title", Reason: "Title is required"}
	}
	if strings.TrimSpace(d.Slug) == "" {
		return Post{}, &DraftIssue{Field: "slug", Reason: "Slug is required"}
	}

	return Post{
		Title:      strings.TrimSpace(d.Title),
		Slug:       strings.TrimSpace(d.Slug),
		Content:    d.Content,
		Excerpt:    optional(d.Excerpt),
		CoverImage: optional(d.CoverImage),
		Published:  d.Published,
		AuthorID:   authorID,
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
