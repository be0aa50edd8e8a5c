package model

// Session is per-client login state, looked up by the opaque cookie token.
type Session struct {
	Token    string `json:"-"`
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Ctime    int64  `json:"ctime"`
}
