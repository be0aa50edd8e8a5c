package model

// Account is a configured login identity. Passwords are compared as
// configured, without hashing.
type Account struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Email    string `json:"email"`
}
