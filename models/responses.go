package models

// AuthResponse is the body returned by signup and login: the public
// projection of the user plus the freshly issued bearer token.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// SessionsResponse reports how many sessions (issued tokens) the
// authenticated user currently holds. The tokens themselves are never
// exposed.
type SessionsResponse struct {
	Sessions int `json:"sessions"`
}

// ErrorResponse is the minimal JSON error body returned for every failed
// request. It intentionally carries no internal detail.
type ErrorResponse struct {
	Error string `json:"error"`
}
