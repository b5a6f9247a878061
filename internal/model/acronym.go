// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages
// but without inheritance. Go favours composition over inheritance.
package model

// Acronym is the primary record: a short form and the long form it stands for.
//
// The `json:"..."` tags tell encoding/json how to name each field on the wire.
// For example:
//
//	a := Acronym{ID: 1, Short: "LOL", Long: "Laugh Out Loud"}
//	json.Marshal(a) -> {"id":1,"short":"LOL","long":"Laugh Out Loud"}
//
// WHY UserID *int64?
// Ownership is optional. A nil pointer maps to SQL NULL and is left out of the
// JSON entirely (omitempty), so an unowned acronym has no "userID" key at all.
type Acronym struct {
	ID     int64  `json:"id"`
	Short  string `json:"short"`
	Long   string `json:"long"`
	UserID *int64 `json:"userID,omitempty"`
}
