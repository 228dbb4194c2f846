package models

import "time"

type Note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotePatch is a partial update: nil means "leave the field as is".
type NotePatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Empty reports whether the patch would change nothing.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil
}
