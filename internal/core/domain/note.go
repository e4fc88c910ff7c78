package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrDuplicateNote = errors.New("a note with this title already exists")
)

// Note is a text note owned by a single user. Deleting a note only flips
// IsActive; the record is kept.
type Note struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Tags        []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TitleKey is the case-insensitive form of a title used for per-owner
// uniqueness.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// NormalizeTags trims every tag and drops the empty ones. The result is
// never nil so it serializes as [].
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasTag reports whether the note carries tag, ignoring case.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Matches reports whether query appears in the title, description or any
// tag, ignoring case. An empty query matches everything.
func (n *Note) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Description), q) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
