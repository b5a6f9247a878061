package model

// Category groups acronyms. An acronym can sit in many categories and a
// category can hold many acronyms; the link lives in the acronym_category
// join table (see repository/sqlite).
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
