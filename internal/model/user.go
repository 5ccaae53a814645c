package model

import "time"

// User is an editorial account that can sign in to the admin area.
//
// PasswordHash carries the bcrypt hash of the senha column. The json:"-"
// tag keeps it out of every API response; there is no legitimate read path
// for it outside the login check.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"nome"`
	CreatedAt    time.Time `json:"created_at"`
}
