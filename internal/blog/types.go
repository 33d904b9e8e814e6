// Package blog defines the records the API reads and writes:
// users, posts, and the post view returned by the read routes.
package blog

// User is an author account.
type User struct {
	ID           int64
	Email        string
	Name         *string
	PasswordHash string
}

// Post is a stored post. ID is assigned by the datastore and never changes.
type Post struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID int64  `json:"authorId"`
}

// Author is the part of a user exposed alongside a post.
type Author struct {
	Name *string `json:"name"`
}

// PostView is the read projection: post fields plus the author's name.
type PostView struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  Author `json:"author"`
}
