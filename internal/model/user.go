package model

// User owns acronyms. Only the owner relationship matters to the API, so the
// shape is kept to a display name and a handle.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}
