package models

import "time"

// User represents an account entity used for authentication and task ownership.
// Sensitive fields (password hash, issued tokens, avatar bytes) are never
// serialized into API responses.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Name is the optional display name of the user. Stored trimmed.
	Name string `json:"name"`

	// Email is the unique login identifier. Stored lowercased and trimmed.
	Email string `json:"email"`

	// Password holds the bcrypt hash of the user's password.
	// Never plaintext after creation, never exposed via JSON.
	Password string `json:"-"`

	// Age is a non-negative profile attribute, defaults to 0.
	Age int64 `json:"age"`

	// Avatar is the PNG-encoded profile image. Served only through the
	// dedicated avatar endpoint, never embedded in JSON.
	Avatar []byte `json:"-"`

	// Tokens is the list of currently valid bearer tokens issued to this
	// user. Populated from the user_tokens table on demand; membership in
	// this list is what makes a well-signed token acceptable.
	Tokens []string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
