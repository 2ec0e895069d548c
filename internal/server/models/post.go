package models

import "time"

// Post is a rehoming listing created by a user.
type Post struct {
	ID          string
	OwnerID     string
	Title       string
	Category    string
	Breed       string
	Description string
	Age         int
	Color       string
	City        string
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment is a user's remark on a post.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}
