package domain

// Credentials are only held for the duration of an auth call and are never
// persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// User is the identity the backend reports alongside a token.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session is the issued bearer token plus the identity it belongs to.
// The token is opaque to the client.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
